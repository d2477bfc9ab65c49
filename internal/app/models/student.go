package models

// Gender enumerates the accepted gender values for a student record.
type Gender string

const (
	GenderMale        Gender = "MALE"
	GenderFemale      Gender = "FEMALE"
	GenderOther       Gender = "OTHER"
	GenderPreferNotTo Gender = "PREFER_NOT_TO_SAY"
)

// ValidGenders lists every accepted gender value.
var ValidGenders = []Gender{GenderMale, GenderFemale, GenderOther, GenderPreferNotTo}

// IsValidGender reports whether value is one of the accepted gender values.
func IsValidGender(value string) bool {
	for _, g := range ValidGenders {
		if string(g) == value {
			return true
		}
	}
	return false
}

// ValidGrades lists the accepted grade levels: kindergarten plus grades 1-12.
var ValidGrades = []string{"K", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}

// IsValidGrade reports whether value is one of the accepted grade levels.
func IsValidGrade(value string) bool {
	for _, g := range ValidGrades {
		if g == value {
			return true
		}
	}
	return false
}

// Student is the student record as held by the upstream system of record.
// The service edits a transient copy of it; identity and lifecycle stay
// upstream. Deletion upstream is a soft delete, the record is marked
// inactive rather than removed.
type Student struct {
	ID               string `json:"id,omitempty"`
	StudentNumber    string `json:"studentNumber"` // Immutable after creation
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfBirth      string `json:"dateOfBirth"` // YYYY-MM-DD
	Grade            string `json:"grade"`
	Gender           Gender `json:"gender"`
	Photo            string `json:"photo,omitempty"`
	MedicalRecordNum string `json:"medicalRecordNum,omitempty"`
	NurseID          string `json:"nurseId,omitempty"`
	EnrollmentDate   string `json:"enrollmentDate,omitempty"`
	IsActive         bool   `json:"isActive"`
	CreatedBy        string `json:"createdBy,omitempty"`
	UpdatedBy        string `json:"updatedBy,omitempty"`
}
