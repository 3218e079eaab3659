package model

import "strings"

// Student is a registered student row.
type Student struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	CollegeID           string `json:"college_id"`
	IDCardNumber        string `json:"id_card_number"`
	Stream              string `json:"stream"`
	MobileNumber        string `json:"mobile_number"`
	ParentsMobileNumber string `json:"parents_mobile_number"`
}

// CreateStudentRequest is the registration form payload.
type CreateStudentRequest struct {
	Name                string `form:"name" binding:"required"`
	CollegeID           string `form:"college_id" binding:"required"`
	IDCardNumber        string `form:"id_card_number" binding:"required"`
	Stream              string `form:"stream" binding:"required"`
	MobileNumber        string `form:"mobile_number" binding:"required"`
	ParentsMobileNumber string `form:"parents_mobile_number" binding:"required"`
}

// Normalize trims surrounding whitespace from every field.
func (r *CreateStudentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.CollegeID = strings.TrimSpace(r.CollegeID)
	r.IDCardNumber = strings.TrimSpace(r.IDCardNumber)
	r.Stream = strings.TrimSpace(r.Stream)
	r.MobileNumber = strings.TrimSpace(r.MobileNumber)
	r.ParentsMobileNumber = strings.TrimSpace(r.ParentsMobileNumber)
}

// Student converts the request into an unsaved Student.
func (r CreateStudentRequest) Student() *Student {
	return &Student{
		Name:                r.Name,
		CollegeID:           r.CollegeID,
		IDCardNumber:        r.IDCardNumber,
		Stream:              r.Stream,
		MobileNumber:        r.MobileNumber,
		ParentsMobileNumber: r.ParentsMobileNumber,
	}
}
