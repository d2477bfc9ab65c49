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

// Fallback error strings for medication submissions.
const (
	fallbackCreateMedication = "Failed to create medication"
	fallbackUpdateMedication = "Failed to update medication"
	fallbackDeleteMedication = "Failed to delete medication"
)

// medicationService implements MedicationService.
type medicationService struct {
	api       MedicationAPI
	audit     AuditSink
	cache     *cache.TagCache
	validator *validation.Validator
	guard     *inflightGuard
	logger    zerolog.Logger
}

// NewMedicationService creates a medication submission service.
func NewMedicationService(api MedicationAPI, audit AuditSink, tagCache *cache.TagCache, validator *validation.Validator, logger zerolog.Logger) MedicationService {
	return &medicationService{
		api:       api,
		audit:     audit,
		cache:     tagCache,
		validator: validator,
		guard:     newInflightGuard(),
		logger:    logger,
	}
}

func (s *medicationService) recordAudit(ctx context.Context, entry *models.AuditEntry) {
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).
			Str("action", string(entry.Action)).
			Str("resource", entry.Resource).
			Str("resourceId", entry.ResourceID).
			Msg("Audit write failed; submission outcome unaffected")
	}
}

// Create validates the draft, creates the record upstream, audits the
// attempt, and invalidates the medication collection views.
func (s *medicationService) Create(ctx context.Context, req *dto.CreateMedicationRequest) *dto.SubmissionResult {
	if res := s.validator.ValidateMedicationCreate(req); !res.Valid() {
		return dto.FailedValidation(res.FieldErrors())
	}

	// Defensive re-check of the create-critical fields before any
	// network call.
	if req.Name == "" || req.Dosage == "" || req.Frequency == "" || req.Prescriber == "" || req.StartDate == "" {
		return dto.Failed("Missing required fields: name, dosage, frequency, prescriber, and start date are required")
	}

	guardKey := "medication:create:" + req.Name + ":" + req.StartDate
	if !s.guard.acquire(guardKey) {
		return dto.Failed(msgSubmissionInFlight)
	}
	defer s.guard.release(guardKey)

	medication, err := s.api.CreateMedication(ctx, req)
	if err != nil {
		message := remoteFailureMessage(err, fallbackCreateMedication)
		s.recordAudit(ctx, &models.AuditEntry{
			Action:       models.AuditActionCreate,
			Resource:     "medication",
			ActorID:      req.CreatedBy,
			Details:      fmt.Sprintf("Failed to create medication %s", req.Name),
			Success:      false,
			ErrorMessage: message,
		})
		return dto.FailedRemote(message)
	}

	s.recordAudit(ctx, &models.AuditEntry{
		Action:     models.AuditActionCreate,
		Resource:   "medication",
		ResourceID: medication.ID,
		ActorID:    req.CreatedBy,
		Details:    fmt.Sprintf("Created medication %s %s", medication.Name, medication.Dosage),
		Success:    true,
	})

	s.cache.InvalidateTag(cache.TagMedications)
	s.cache.InvalidateTag(cache.TagList)
	s.cache.InvalidatePath(cache.PathMedications)

	return dto.Succeeded(medication, "Medication created successfully")
}

// Update applies a partial patch to one medication record.
func (s *medicationService) Update(ctx context.Context, id string, req *dto.UpdateMedicationRequest) *dto.SubmissionResult {
	if id == "" {
		return dto.Failed("Medication ID is required")
	}

	if res := s.validator.ValidateMedicationUpdate(req); !res.Valid() {
		return dto.FailedValidation(res.FieldErrors())
	}

	guardKey := "medication:" + id
	if !s.guard.acquire(guardKey) {
		return dto.Failed(msgSubmissionInFlight)
	}
	defer s.guard.release(guardKey)

	changes := req.Changes()
	medication, err := s.api.UpdateMedication(ctx, id, changes)
	if err != nil {
		message := remoteFailureMessage(err, fallbackUpdateMedication)
		s.recordAudit(ctx, &models.AuditEntry{
			Action:       models.AuditActionUpdate,
			Resource:     "medication",
			ResourceID:   id,
			ActorID:      req.UpdatedBy,
			Details:      fmt.Sprintf("Failed to update medication %s", id),
			Success:      false,
			ErrorMessage: message,
		})
		return dto.FailedRemote(message)
	}

	s.recordAudit(ctx, &models.AuditEntry{
		Action:     models.AuditActionUpdate,
		Resource:   "medication",
		ResourceID: id,
		ActorID:    req.UpdatedBy,
		Details:    fmt.Sprintf("Updated medication %s", id),
		Success:    true,
		Changes:    changes,
	})

	s.cache.InvalidateTag(cache.TagMedications)
	s.cache.InvalidateTag(cache.ItemTag(cache.TagMedications, id))
	s.cache.InvalidateTag(cache.TagList)
	s.cache.InvalidatePath(cache.PathMedications)
	s.cache.InvalidatePath(cache.ItemPath(cache.TagMedications, id))

	return dto.Succeeded(medication, "Medication updated successfully")
}

// Delete soft-deletes one medication record upstream.
func (s *medicationService) Delete(ctx context.Context, id, actorID string) *dto.SubmissionResult {
	if id == "" {
		return dto.Failed("Medication ID is required")
	}

	guardKey := "medication:" + id
	if !s.guard.acquire(guardKey) {
		return dto.Failed(msgSubmissionInFlight)
	}
	defer s.guard.release(guardKey)

	if err := s.api.DeleteMedication(ctx, id); err != nil {
		message := remoteFailureMessage(err, fallbackDeleteMedication)
		s.recordAudit(ctx, &models.AuditEntry{
			Action:       models.AuditActionDelete,
			Resource:     "medication",
			ResourceID:   id,
			ActorID:      actorID,
			Details:      fmt.Sprintf("Failed to delete medication %s", id),
			Success:      false,
			ErrorMessage: message,
		})
		return dto.FailedRemote(message)
	}

	s.recordAudit(ctx, &models.AuditEntry{
		Action:     models.AuditActionDelete,
		Resource:   "medication",
		ResourceID: id,
		ActorID:    actorID,
		Details:    fmt.Sprintf("Discontinued medication %s", id),
		Success:    true,
	})

	s.cache.InvalidateTag(cache.TagMedications)
	s.cache.InvalidateTag(cache.ItemTag(cache.TagMedications, id))
	s.cache.InvalidateTag(cache.TagList)
	s.cache.InvalidatePath(cache.PathMedications)

	return &dto.SubmissionResult{Success: true, Message: "Medication deleted successfully"}
}

// Get retrieves one medication record through the tagged cache.
func (s *medicationService) Get(ctx context.Context, id string) (*models.Medication, error) {
	if id == "" {
		return nil, apperrors.NewPreconditionError("Medication ID is required")
	}

	key := "medication:" + id
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*models.Medication), nil
	}

	medication, err := s.api.GetMedication(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, cache.ItemPath(cache.TagMedications, id),
		[]string{cache.TagMedications, cache.ItemTag(cache.TagMedications, id)}, medication)
	return medication, nil
}

// List retrieves the medication collection through the tagged cache.
func (s *medicationService) List(ctx context.Context) ([]models.Medication, error) {
	const key = "medications:list"
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]models.Medication), nil
	}

	medications, err := s.api.ListMedications(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, cache.PathMedications, []string{cache.TagMedications, cache.TagList}, medications)
	return medications, nil
}
