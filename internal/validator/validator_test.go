package validator

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/college-registration/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func TestValidateUsesFormNames(t *testing.T) {
	req := &model.CreateStudentRequest{
		Name:         "Asha",
		CollegeID:    "C1",
		IDCardNumber: "ID1",
		Stream:       "CS",
	}

	fields := Validate(req)
	if len(fields) != 2 {
		t.Fatalf("fields = %v, want 2 entries", fields)
	}
	if got := fields["mobile_number"]; got != "mobile_number is a required field" {
		t.Fatalf("mobile_number message = %q", got)
	}
	if _, ok := fields["parents_mobile_number"]; !ok {
		t.Fatalf("parents_mobile_number missing from %v", fields)
	}
}

func TestValidateAcceptsCompletePayload(t *testing.T) {
	req := &model.CreateStudentRequest{
		Name:                "Asha",
		CollegeID:           "C1",
		IDCardNumber:        "ID1",
		Stream:              "CS",
		MobileNumber:        "111",
		ParentsMobileNumber: "222",
	}
	if fields := Validate(req); fields != nil {
		t.Fatalf("unexpected errors: %v", fields)
	}
}

func TestTranslateErrorsNonValidation(t *testing.T) {
	fields := TranslateErrors(errors.New("boom"))
	if fields["detail"] != "boom" {
		t.Fatalf("fields = %v", fields)
	}
}

func TestBindFormURLEncoded(t *testing.T) {
	form := url.Values{
		"name":       {"  Asha "},
		"college_id": {"C1"},
		"stream":     {""},
	}
	c := formContext(t, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")

	var req model.CreateStudentRequest
	if err := BindForm(c, &req); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if req.Name != "  Asha " {
		t.Fatalf("Name = %q, want untrimmed value", req.Name)
	}
	if req.CollegeID != "C1" {
		t.Fatalf("CollegeID = %q", req.CollegeID)
	}
	if req.IDCardNumber != "" {
		t.Fatalf("IDCardNumber = %q, want empty", req.IDCardNumber)
	}
}

func TestBindFormMultipart(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("name", "Asha"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := w.WriteField("id_card_number", "ID1"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	c := formContext(t, &body, w.FormDataContentType())

	var req model.CreateStudentRequest
	if err := BindForm(c, &req); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if req.Name != "Asha" || req.IDCardNumber != "ID1" {
		t.Fatalf("req = %+v", req)
	}
}

func formContext(t *testing.T, body io.Reader, contentType string) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/add_student", body)
	req.Header.Set("Content-Type", contentType)
	c.Request = req
	return c
}
