// Package services drives record submissions end to end: validate the
// draft, call the remote record API, write an audit entry, invalidate
// cached views, and report a single result to the caller.
package services

import (
	"context"
	"errors"

	"github.com/schoolmed/healthdesk/internal/app/models"
	"github.com/schoolmed/healthdesk/internal/app/models/dto"
	"github.com/schoolmed/healthdesk/internal/upstream"
)

// StudentService drives student record submissions.
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest) *dto.SubmissionResult
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) *dto.SubmissionResult
	Delete(ctx context.Context, id, actorID string) *dto.SubmissionResult
	Get(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context) ([]models.Student, error)
}

// MedicationService drives medication record submissions.
type MedicationService interface {
	Create(ctx context.Context, req *dto.CreateMedicationRequest) *dto.SubmissionResult
	Update(ctx context.Context, id string, req *dto.UpdateMedicationRequest) *dto.SubmissionResult
	Delete(ctx context.Context, id, actorID string) *dto.SubmissionResult
	Get(ctx context.Context, id string) (*models.Medication, error)
	List(ctx context.Context) ([]models.Medication, error)
}

// StudentAPI is the slice of the remote record API the student pipeline
// consumes.
type StudentAPI interface {
	CreateStudent(ctx context.Context, payload interface{}) (*models.Student, error)
	UpdateStudent(ctx context.Context, id string, patch map[string]interface{}) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
}

// MedicationAPI is the slice of the remote record API the medication
// pipeline consumes.
type MedicationAPI interface {
	CreateMedication(ctx context.Context, payload interface{}) (*models.Medication, error)
	UpdateMedication(ctx context.Context, id string, patch map[string]interface{}) (*models.Medication, error)
	DeleteMedication(ctx context.Context, id string) error
	GetMedication(ctx context.Context, id string) (*models.Medication, error)
	ListMedications(ctx context.Context) ([]models.Medication, error)
}

// AuditSink records submission attempts for compliance review. Recording
// is advisory: a sink failure is logged by the caller and never rolls back
// an otherwise-successful submission.
type AuditSink interface {
	Record(ctx context.Context, entry *models.AuditEntry) error
}

// remoteFailureMessage degrades a remote failure to the single string the
// form displays: the record API's own message when it sent one, the
// wrapped error's message otherwise, and the fixed fallback when neither
// carries text.
func remoteFailureMessage(err error, fallback string) string {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
