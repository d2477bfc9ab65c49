package dto

// CreateStudentRequest is the draft a form submits to create a student.
// Field rules are enforced by the validation layer, which returns a
// per-field error map rather than failing the bind, so no required tags
// here. CreatedBy is attributed from the acting user, never client-editable.
type CreateStudentRequest struct {
	StudentNumber    string `json:"studentNumber" example:"STU-2026-0042"`
	FirstName        string `json:"firstName" example:"Amelia"`
	LastName         string `json:"lastName" example:"O'Brien"`
	DateOfBirth      string `json:"dateOfBirth" example:"2015-09-14"`
	Grade            string `json:"grade" example:"5"`
	Gender           string `json:"gender" example:"FEMALE" enums:"MALE,FEMALE,OTHER,PREFER_NOT_TO_SAY"`
	Photo            string `json:"photo,omitempty" example:"https://cdn.example.com/photos/42.jpg"`
	MedicalRecordNum string `json:"medicalRecordNum,omitempty" example:"MRN-1042"`
	NurseID          string `json:"nurseId,omitempty" example:"8b9e8a70-3f5c-4a7e-9a39-6d2f3f1a9f10"`
	EnrollmentDate   string `json:"enrollmentDate,omitempty" example:"2021-08-30"`

	CreatedBy string `json:"-"`
}

// UpdateStudentRequest is a partial patch against an existing student.
// Only supplied fields change; an empty patch is rejected. StudentNumber is
// immutable after creation and deliberately not accepted here.
type UpdateStudentRequest struct {
	FirstName        *string        `json:"firstName,omitempty"`
	LastName         *string        `json:"lastName,omitempty"`
	DateOfBirth      *string        `json:"dateOfBirth,omitempty"`
	Grade            *string        `json:"grade,omitempty"`
	Gender           *string        `json:"gender,omitempty"`
	Photo            *string        `json:"photo,omitempty"`
	MedicalRecordNum *string        `json:"medicalRecordNum,omitempty"`
	NurseID          NullableString `json:"nurseId,omitempty"` // Explicit null unassigns the nurse
	EnrollmentDate   *string        `json:"enrollmentDate,omitempty"`
	IsActive         *bool          `json:"isActive,omitempty"`

	UpdatedBy string `json:"-"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (r *UpdateStudentRequest) IsEmpty() bool {
	return r.FirstName == nil &&
		r.LastName == nil &&
		r.DateOfBirth == nil &&
		r.Grade == nil &&
		r.Gender == nil &&
		r.Photo == nil &&
		r.MedicalRecordNum == nil &&
		!r.NurseID.Set &&
		r.EnrollmentDate == nil &&
		r.IsActive == nil
}

// Changes flattens the patch into the map recorded as audit "changes" and
// sent to the remote API. Only supplied fields appear; an explicit null
// nurseId appears as nil.
func (r *UpdateStudentRequest) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if r.FirstName != nil {
		changes["firstName"] = *r.FirstName
	}
	if r.LastName != nil {
		changes["lastName"] = *r.LastName
	}
	if r.DateOfBirth != nil {
		changes["dateOfBirth"] = *r.DateOfBirth
	}
	if r.Grade != nil {
		changes["grade"] = *r.Grade
	}
	if r.Gender != nil {
		changes["gender"] = *r.Gender
	}
	if r.Photo != nil {
		changes["photo"] = *r.Photo
	}
	if r.MedicalRecordNum != nil {
		changes["medicalRecordNum"] = *r.MedicalRecordNum
	}
	if r.NurseID.Set {
		if r.NurseID.Valid {
			changes["nurseId"] = r.NurseID.Value
		} else {
			changes["nurseId"] = nil
		}
	}
	if r.EnrollmentDate != nil {
		changes["enrollmentDate"] = *r.EnrollmentDate
	}
	if r.IsActive != nil {
		changes["isActive"] = *r.IsActive
	}
	if r.UpdatedBy != "" {
		changes["updatedBy"] = r.UpdatedBy
	}
	return changes
}
