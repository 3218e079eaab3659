package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/college-registration/internal/middleware"
	"github.com/stemsi/college-registration/internal/model"
	"github.com/stemsi/college-registration/internal/repository"
	"github.com/stemsi/college-registration/internal/response"
	"github.com/stemsi/college-registration/internal/service"
	"github.com/stemsi/college-registration/internal/validator"
	"github.com/stemsi/college-registration/internal/view"
)

// PageTitle is shown in the browser tab and page heading.
const PageTitle = "Student Registration"

// fieldLabels maps unique columns to the labels used on the form.
var fieldLabels = map[string]string{
	repository.FieldCollegeID:    "College ID",
	repository.FieldIDCardNumber: "ID Card Number",
}

// StudentHandler serves the registration page and form submissions.
type StudentHandler struct {
	studentService *service.StudentService
	log            zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		log:            log.With().Str("component", "student_handler").Logger(),
	}
}

// Index godoc
// GET /
// Renders the registration form above the list of students.
func (h *StudentHandler) Index(c *gin.Context) {
	students, err := h.studentService.ListStudents(c.Request.Context(), middleware.GetConn(c))
	if err != nil {
		h.log.Error().Err(err).Str("request_id", response.GetRequestID(c)).Msg("List students failed")
		response.Text(c, http.StatusInternalServerError, response.ErrInternal, "")
		return
	}

	c.HTML(http.StatusOK, view.IndexTemplate, view.IndexPage{
		Title:    PageTitle,
		Students: students,
	})
}

// AddStudent godoc
// POST /add_student
// Registers a student from the submitted form and redirects back to the list.
func (h *StudentHandler) AddStudent(c *gin.Context) {
	var req model.CreateStudentRequest
	if err := validator.BindForm(c, &req); err != nil {
		h.log.Warn().Err(err).Str("request_id", response.GetRequestID(c)).Msg("Unreadable registration form")
		response.Text(c, http.StatusBadRequest, response.ErrInvalidPayload, "")
		return
	}

	student, err := h.studentService.Register(c.Request.Context(), middleware.GetConn(c), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.Debug().Int64("student_id", student.ID).Msg("Redirecting after registration")
	response.Redirect(c, "/")
}

func (h *StudentHandler) fail(c *gin.Context, err error) {
	reqID := response.GetRequestID(c)

	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		h.log.Warn().Strs("fields", vErr.FieldNames()).Str("request_id", reqID).Msg("Registration rejected")
		response.Text(c, http.StatusBadRequest, response.ErrValidation, "Error: "+vErr.Error())
		return
	}

	var dupErr *repository.DuplicateKeyError
	if errors.As(err, &dupErr) {
		h.log.Warn().Str("field", dupErr.Field).Str("request_id", reqID).Msg("Duplicate student")
		response.Text(c, http.StatusConflict, response.ErrConflict, duplicateMessage(dupErr.Field))
		return
	}

	h.log.Error().Err(err).Str("request_id", reqID).Msg("Register student failed")
	response.Text(c, http.StatusInternalServerError, response.ErrInternal, "")
}

func duplicateMessage(field string) string {
	label, ok := fieldLabels[field]
	if !ok {
		return response.GetMessage(response.ErrConflict)
	}
	return "Error: A student with that " + label + " already exists."
}
