package validation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/schoolmed/healthdesk/internal/app/models"
	"github.com/schoolmed/healthdesk/internal/app/models/dto"
	"github.com/schoolmed/healthdesk/internal/pkg/clock"
)

// Field error messages for student records.
const (
	msgStudentNumber    = "Student number must be 3-50 characters and may only contain letters, numbers, and hyphens"
	msgFirstNameReq     = "First name is required"
	msgLastNameReq      = "Last name is required"
	msgName             = "Name must be 1-100 characters and may only contain letters, spaces, hyphens, and apostrophes"
	msgDOBRequired      = "Date of birth is required"
	msgDOBFormat        = "Date of birth must be a valid date in YYYY-MM-DD format"
	msgDOBPast          = "Date of birth must be in the past"
	msgDOBYear          = "Birth year must be after 1900"
	msgGrade            = "Grade must be K or 1-12"
	msgGender           = "Gender must be one of MALE, FEMALE, OTHER, PREFER_NOT_TO_SAY"
	msgPhotoURL         = "Photo must be a valid URL"
	msgMedicalRecordNum = "Medical record number must be 3-50 characters and may only contain letters, numbers, and hyphens"
	msgNurseID          = "Nurse ID must be a valid UUID"
	msgEnrollmentDate   = "Enrollment date must be a valid date in YYYY-MM-DD format"
	msgEmptyUpdate      = "At least one field must be provided for update"
)

// Validator checks candidate records against field-level rules and returns
// either a normalized record or a map of field name to error message. It
// never returns a Go error: rule outcomes are data, not exceptions.
type Validator struct {
	clock    clock.Clock
	validate *validator.Validate
}

// NewValidator creates a Validator. The injected clock drives the
// past-date and current-year rules.
func NewValidator(c clock.Clock) *Validator {
	return &Validator{
		clock:    c,
		validate: validator.New(),
	}
}

// isURL delegates URL shape checking to the validator library.
func (v *Validator) isURL(value string) bool {
	return v.validate.Var(value, "url") == nil
}

// isUUID delegates UUID shape checking to the validator library.
func (v *Validator) isUUID(value string) bool {
	return v.validate.Var(value, "uuid") == nil
}

// checkBirthDate applies the shared date-of-birth rules: parseable,
// strictly before today, year within (1900, current year]. The comparison
// is at date granularity: parsed dates are midnight, so comparing against
// the raw clock would accept today's date any time after 00:00.
func (v *Validator) checkBirthDate(res *Result, field, value string) {
	t, ok := parseDate(value)
	if !ok {
		res.add(field, msgDOBFormat)
		return
	}
	now := v.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !t.Before(today) {
		res.add(field, msgDOBPast)
		return
	}
	if t.Year() <= MinBirthYear || t.Year() > now.Year() {
		res.add(field, msgDOBYear)
	}
}

// ValidateStudentCreate checks a student creation draft. On success the
// request is normalized in place (blank optional fields cleared) and the
// result carries no field errors. Validation is idempotent: re-validating
// a normalized record yields the same record.
func (v *Validator) ValidateStudentCreate(req *dto.CreateStudentRequest) *Result {
	res := newResult()

	if isBlank(req.StudentNumber) {
		res.add("studentNumber", "Student number is required")
	} else if !CompiledPatterns.StudentNumber.MatchString(req.StudentNumber) {
		res.add("studentNumber", msgStudentNumber)
	}

	if isBlank(req.FirstName) {
		res.add("firstName", msgFirstNameReq)
	} else if !(StringRule{Value: req.FirstName, MinLen: NameMinLength, MaxLen: NameMaxLength, Required: true, Pattern: CompiledPatterns.Name}).Ok() {
		res.add("firstName", msgName)
	}

	if isBlank(req.LastName) {
		res.add("lastName", msgLastNameReq)
	} else if !(StringRule{Value: req.LastName, MinLen: NameMinLength, MaxLen: NameMaxLength, Required: true, Pattern: CompiledPatterns.Name}).Ok() {
		res.add("lastName", msgName)
	}

	if isBlank(req.DateOfBirth) {
		res.add("dateOfBirth", msgDOBRequired)
	} else {
		v.checkBirthDate(res, "dateOfBirth", req.DateOfBirth)
	}

	if !models.IsValidGrade(req.Grade) {
		res.add("grade", msgGrade)
	}

	if !models.IsValidGender(req.Gender) {
		res.add("gender", msgGender)
	}

	// Optional fields: blank means absent
	if isBlank(req.Photo) {
		req.Photo = ""
	} else if !v.isURL(req.Photo) {
		res.add("photo", msgPhotoURL)
	}

	if isBlank(req.MedicalRecordNum) {
		req.MedicalRecordNum = ""
	} else if !CompiledPatterns.StudentNumber.MatchString(req.MedicalRecordNum) {
		res.add("medicalRecordNum", msgMedicalRecordNum)
	}

	if isBlank(req.NurseID) {
		req.NurseID = ""
	} else if !v.isUUID(req.NurseID) {
		res.add("nurseId", msgNurseID)
	}

	if isBlank(req.EnrollmentDate) {
		req.EnrollmentDate = ""
	} else if _, ok := parseDate(req.EnrollmentDate); !ok {
		res.add("enrollmentDate", msgEnrollmentDate)
	}

	return res
}

// ValidateStudentUpdate checks a partial student patch. An empty patch is
// an error, not a silent success. Supplied fields are held to the same
// rules as on create; absent fields are left alone.
func (v *Validator) ValidateStudentUpdate(req *dto.UpdateStudentRequest) *Result {
	res := newResult()

	if req.IsEmpty() {
		res.add(FormErrorKey, msgEmptyUpdate)
		return res
	}

	if req.FirstName != nil {
		if isBlank(*req.FirstName) {
			res.add("firstName", msgFirstNameReq)
		} else if !(StringRule{Value: *req.FirstName, MinLen: NameMinLength, MaxLen: NameMaxLength, Required: true, Pattern: CompiledPatterns.Name}).Ok() {
			res.add("firstName", msgName)
		}
	}

	if req.LastName != nil {
		if isBlank(*req.LastName) {
			res.add("lastName", msgLastNameReq)
		} else if !(StringRule{Value: *req.LastName, MinLen: NameMinLength, MaxLen: NameMaxLength, Required: true, Pattern: CompiledPatterns.Name}).Ok() {
			res.add("lastName", msgName)
		}
	}

	if req.DateOfBirth != nil {
		if isBlank(*req.DateOfBirth) {
			res.add("dateOfBirth", msgDOBRequired)
		} else {
			v.checkBirthDate(res, "dateOfBirth", *req.DateOfBirth)
		}
	}

	if req.Grade != nil && !models.IsValidGrade(*req.Grade) {
		res.add("grade", msgGrade)
	}

	if req.Gender != nil && !models.IsValidGender(*req.Gender) {
		res.add("gender", msgGender)
	}

	if req.Photo != nil && !isBlank(*req.Photo) && !v.isURL(*req.Photo) {
		res.add("photo", msgPhotoURL)
	}

	if req.MedicalRecordNum != nil && !isBlank(*req.MedicalRecordNum) &&
		!CompiledPatterns.StudentNumber.MatchString(*req.MedicalRecordNum) {
		res.add("medicalRecordNum", msgMedicalRecordNum)
	}

	// Explicit null unassigns the nurse and needs no shape check
	if req.NurseID.Set && req.NurseID.Valid && !v.isUUID(req.NurseID.Value) {
		res.add("nurseId", msgNurseID)
	}

	if req.EnrollmentDate != nil && !isBlank(*req.EnrollmentDate) {
		if _, ok := parseDate(*req.EnrollmentDate); !ok {
			res.add("enrollmentDate", msgEnrollmentDate)
		}
	}

	return res
}
