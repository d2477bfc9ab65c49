package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/schoolmed/healthdesk/internal/app/models"
	"github.com/schoolmed/healthdesk/internal/app/models/dto"
	"github.com/schoolmed/healthdesk/internal/pkg/apperrors"
	"github.com/schoolmed/healthdesk/internal/pkg/cache"
	"github.com/schoolmed/healthdesk/internal/pkg/validation"
)

// Fallback error strings for student submissions. Used when neither the
// record API nor the wrapped error carries a displayable message.
const (
	fallbackCreateStudent = "Failed to create student"
	fallbackUpdateStudent = "Failed to update student"
	fallbackDeleteStudent = "Failed to delete student"
)

// studentService implements StudentService.
type studentService struct {
	api       StudentAPI
	audit     AuditSink
	cache     *cache.TagCache
	validator *validation.Validator
	guard     *inflightGuard
	logger    zerolog.Logger
}

// NewStudentService creates a student submission service.
func NewStudentService(api StudentAPI, audit AuditSink, tagCache *cache.TagCache, validator *validation.Validator, logger zerolog.Logger) StudentService {
	return &studentService{
		api:       api,
		audit:     audit,
		cache:     tagCache,
		validator: validator,
		guard:     newInflightGuard(),
		logger:    logger,
	}
}

// recordAudit writes one audit entry. Audit failures are advisory: they
// are logged and never alter the submission outcome.
func (s *studentService) recordAudit(ctx context.Context, entry *models.AuditEntry) {
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).
			Str("action", string(entry.Action)).
			Str("resource", entry.Resource).
			Str("resourceId", entry.ResourceID).
			Msg("Audit write failed; submission outcome unaffected")
	}
}

// Create validates the draft, creates the record upstream, audits the
// attempt, and invalidates the student collection views. Validation or
// precondition failures return before any network call.
func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest) *dto.SubmissionResult {
	if res := s.validator.ValidateStudentCreate(req); !res.Valid() {
		return dto.FailedValidation(res.FieldErrors())
	}

	// Defensive re-check of the create-critical fields. The validation
	// layer already enforced these; a violation here means the caller
	// bypassed it, and still must not reach the network.
	if req.FirstName == "" || req.LastName == "" || req.DateOfBirth == "" || req.Grade == "" {
		return dto.Failed("Missing required fields: first name, last name, date of birth, and grade are required")
	}

	guardKey := "student:create:" + req.StudentNumber
	if !s.guard.acquire(guardKey) {
		return dto.Failed(msgSubmissionInFlight)
	}
	defer s.guard.release(guardKey)

	student, err := s.api.CreateStudent(ctx, req)
	if err != nil {
		message := remoteFailureMessage(err, fallbackCreateStudent)
		s.recordAudit(ctx, &models.AuditEntry{
			Action:       models.AuditActionCreate,
			Resource:     "student",
			ActorID:      req.CreatedBy,
			Details:      fmt.Sprintf("Failed to create student %s", req.StudentNumber),
			Success:      false,
			ErrorMessage: message,
		})
		return dto.FailedRemote(message)
	}

	s.recordAudit(ctx, &models.AuditEntry{
		Action:     models.AuditActionCreate,
		Resource:   "student",
		ResourceID: student.ID,
		ActorID:    req.CreatedBy,
		Details:    fmt.Sprintf("Created student %s %s (%s)", student.FirstName, student.LastName, student.StudentNumber),
		Success:    true,
	})

	s.cache.InvalidateTag(cache.TagStudents)
	s.cache.InvalidateTag(cache.TagList)
	s.cache.InvalidatePath(cache.PathStudents)

	return dto.Succeeded(student, "Student created successfully")
}

// Update applies a partial patch to one student record. An empty id or an
// empty patch is rejected without a network call; only supplied fields
// change upstream.
func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) *dto.SubmissionResult {
	if id == "" {
		return dto.Failed("Student ID is required")
	}

	if res := s.validator.ValidateStudentUpdate(req); !res.Valid() {
		return dto.FailedValidation(res.FieldErrors())
	}

	guardKey := "student:" + id
	if !s.guard.acquire(guardKey) {
		return dto.Failed(msgSubmissionInFlight)
	}
	defer s.guard.release(guardKey)

	changes := req.Changes()
	student, err := s.api.UpdateStudent(ctx, id, changes)
	if err != nil {
		message := remoteFailureMessage(err, fallbackUpdateStudent)
		s.recordAudit(ctx, &models.AuditEntry{
			Action:       models.AuditActionUpdate,
			Resource:     "student",
			ResourceID:   id,
			ActorID:      req.UpdatedBy,
			Details:      fmt.Sprintf("Failed to update student %s", id),
			Success:      false,
			ErrorMessage: message,
		})
		return dto.FailedRemote(message)
	}

	s.recordAudit(ctx, &models.AuditEntry{
		Action:     models.AuditActionUpdate,
		Resource:   "student",
		ResourceID: id,
		ActorID:    req.UpdatedBy,
		Details:    fmt.Sprintf("Updated student %s", id),
		Success:    true,
		Changes:    changes,
	})

	s.cache.InvalidateTag(cache.TagStudents)
	s.cache.InvalidateTag(cache.ItemTag(cache.TagStudents, id))
	s.cache.InvalidateTag(cache.TagList)
	s.cache.InvalidatePath(cache.PathStudents)
	s.cache.InvalidatePath(cache.ItemPath(cache.TagStudents, id))

	return dto.Succeeded(student, "Student updated successfully")
}

// Delete soft-deletes one student record upstream. The item page path is
// not invalidated: the item no longer exists, only collection views are
// stale.
func (s *studentService) Delete(ctx context.Context, id, actorID string) *dto.SubmissionResult {
	if id == "" {
		return dto.Failed("Student ID is required")
	}

	guardKey := "student:" + id
	if !s.guard.acquire(guardKey) {
		return dto.Failed(msgSubmissionInFlight)
	}
	defer s.guard.release(guardKey)

	if err := s.api.DeleteStudent(ctx, id); err != nil {
		message := remoteFailureMessage(err, fallbackDeleteStudent)
		s.recordAudit(ctx, &models.AuditEntry{
			Action:       models.AuditActionDelete,
			Resource:     "student",
			ResourceID:   id,
			ActorID:      actorID,
			Details:      fmt.Sprintf("Failed to delete student %s", id),
			Success:      false,
			ErrorMessage: message,
		})
		return dto.FailedRemote(message)
	}

	s.recordAudit(ctx, &models.AuditEntry{
		Action:     models.AuditActionDelete,
		Resource:   "student",
		ResourceID: id,
		ActorID:    actorID,
		Details:    fmt.Sprintf("Deactivated student %s", id),
		Success:    true,
	})

	s.cache.InvalidateTag(cache.TagStudents)
	s.cache.InvalidateTag(cache.ItemTag(cache.TagStudents, id))
	s.cache.InvalidateTag(cache.TagList)
	s.cache.InvalidatePath(cache.PathStudents)

	return &dto.SubmissionResult{Success: true, Message: "Student deleted successfully"}
}

// Get retrieves one student record, served from the tagged cache when the
// entry has not been invalidated since it was stored.
func (s *studentService) Get(ctx context.Context, id string) (*models.Student, error) {
	if id == "" {
		return nil, apperrors.NewPreconditionError("Student ID is required")
	}

	key := "student:" + id
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.Student), nil
	}

	student, err := s.api.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, cache.ItemPath(cache.TagStudents, id),
		[]string{cache.TagStudents, cache.ItemTag(cache.TagStudents, id)}, student)
	return student, nil
}

// List retrieves the student collection, served from the tagged cache
// until a write invalidates it.
func (s *studentService) List(ctx context.Context) ([]models.Student, error) {
	const key = "students:list"
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Student), nil
	}

	students, err := s.api.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, cache.PathStudents, []string{cache.TagStudents, cache.TagList}, students)
	return students, nil
}
