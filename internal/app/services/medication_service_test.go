package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/schoolmed/healthdesk/internal/app/models"
	"github.com/schoolmed/healthdesk/internal/app/models/dto"
	"github.com/schoolmed/healthdesk/internal/pkg/apperrors"
	"github.com/schoolmed/healthdesk/internal/pkg/cache"
	"github.com/schoolmed/healthdesk/internal/pkg/clock"
	"github.com/schoolmed/healthdesk/internal/pkg/validation"
	"github.com/schoolmed/healthdesk/internal/upstream"
)

func newMedicationFixture(api *MockMedicationAPI, sink *MockAuditSink) (MedicationService, *cache.TagCache) {
	testNow := time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)
	tagCache := cache.NewTagCache(0)
	validator := validation.NewValidator(clock.Fixed(testNow))
	svc := NewMedicationService(api, sink, tagCache, validator, zerolog.Nop())
	return svc, tagCache
}

func validCreateMedicationSubmission() *dto.CreateMedicationRequest {
	return &dto.CreateMedicationRequest{
		Name:       "Amoxicillin",
		Dosage:     "500mg",
		Frequency:  "Twice daily",
		Prescriber: "Dr. Chen",
		StartDate:  "2026-02-01",
		CreatedBy:  "nurse-1",
	}
}

func TestMedicationCreate_Success(t *testing.T) {
	api := &MockMedicationAPI{
		CreateMedicationFunc: func(ctx context.Context, payload interface{}) (*models.Medication, error) {
			return &models.Medication{ID: "med-1", Name: "Amoxicillin", Dosage: "500mg"}, nil
		},
	}
	sink := &MockAuditSink{}
	svc, tagCache := newMedicationFixture(api, sink)

	tagCache.Set("medications:list", cache.PathMedications, []string{cache.TagMedications, cache.TagList}, "stale")

	result := svc.Create(context.Background(), validCreateMedicationSubmission())

	assert.True(t, result.Success)
	assert.Equal(t, "Medication created successfully", result.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.CreateMedicationCallCount))

	entry := sink.Entries[0]
	assert.Equal(t, models.AuditActionCreate, entry.Action)
	assert.Equal(t, "medication", entry.Resource)
	assert.Equal(t, "med-1", entry.ResourceID)
	assert.True(t, entry.Success)

	_, ok := tagCache.Get("medications:list")
	assert.False(t, ok)
}

func TestMedicationCreate_ValidationFailureNeverCallsAPI(t *testing.T) {
	api := &MockMedicationAPI{}
	sink := &MockAuditSink{}
	svc, _ := newMedicationFixture(api, sink)

	result := svc.Create(context.Background(), &dto.CreateMedicationRequest{})

	assert.False(t, result.Success)
	assert.Equal(t, apperrors.KindValidation, result.Kind)
	assert.Equal(t, "Medication name is required", result.FieldErrors["name"])
	assert.Equal(t, "Dosage is required", result.FieldErrors["dosage"])
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.CreateMedicationCallCount))
	assert.Equal(t, int32(0), atomic.LoadInt32(&sink.RecordCallCount))
}

func TestMedicationCreate_RemoteFailureIsCaught(t *testing.T) {
	api := &MockMedicationAPI{
		CreateMedicationFunc: func(ctx context.Context, payload interface{}) (*models.Medication, error) {
			return nil, &upstream.APIError{StatusCode: 502, Message: "Record system unavailable"}
		},
	}
	sink := &MockAuditSink{}
	svc, _ := newMedicationFixture(api, sink)

	result := svc.Create(context.Background(), validCreateMedicationSubmission())

	assert.False(t, result.Success)
	assert.Equal(t, "Record system unavailable", result.Error)
	assert.Equal(t, apperrors.KindRemote, result.Kind)

	entry := sink.Entries[0]
	assert.False(t, entry.Success)
	assert.Equal(t, "Record system unavailable", entry.ErrorMessage)
	assert.Equal(t, "", entry.ResourceID)
}

func TestMedicationUpdate_EmptyID(t *testing.T) {
	api := &MockMedicationAPI{}
	svc, _ := newMedicationFixture(api, &MockAuditSink{})

	dosage := "250mg"
	result := svc.Update(context.Background(), "", &dto.UpdateMedicationRequest{Dosage: &dosage})

	assert.False(t, result.Success)
	assert.Equal(t, "Medication ID is required", result.Error)
	assert.Equal(t, apperrors.KindPrecondition, result.Kind)
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.UpdateMedicationCallCount))
}

func TestMedicationUpdate_EmptyPatchRejected(t *testing.T) {
	api := &MockMedicationAPI{}
	svc, _ := newMedicationFixture(api, &MockAuditSink{})

	result := svc.Update(context.Background(), "med-1", &dto.UpdateMedicationRequest{})

	assert.False(t, result.Success)
	assert.Equal(t, "At least one field must be provided for update", result.FieldErrors[validation.FormErrorKey])
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.UpdateMedicationCallCount))
}

func TestMedicationUpdate_Success(t *testing.T) {
	var gotPatch map[string]interface{}
	api := &MockMedicationAPI{
		UpdateMedicationFunc: func(ctx context.Context, id string, patch map[string]interface{}) (*models.Medication, error) {
			gotPatch = patch
			return &models.Medication{ID: id}, nil
		},
	}
	sink := &MockAuditSink{}
	svc, tagCache := newMedicationFixture(api, sink)

	tagCache.Set("medication:med-1", cache.ItemPath(cache.TagMedications, "med-1"),
		[]string{cache.TagMedications, cache.ItemTag(cache.TagMedications, "med-1")}, "cached")

	status := "discontinued"
	result := svc.Update(context.Background(), "med-1", &dto.UpdateMedicationRequest{
		Status:    &status,
		UpdatedBy: "nurse-2",
	})

	assert.True(t, result.Success)
	assert.Equal(t, "Medication updated successfully", result.Message)
	assert.Equal(t, "discontinued", gotPatch["status"])
	assert.Equal(t, "nurse-2", gotPatch["updatedBy"])
	assert.NotContains(t, gotPatch, "dosage")

	assert.Equal(t, gotPatch, sink.Entries[0].Changes)

	_, ok := tagCache.Get("medication:med-1")
	assert.False(t, ok)
}

func TestMedicationDelete_Success(t *testing.T) {
	api := &MockMedicationAPI{
		DeleteMedicationFunc: func(ctx context.Context, id string) error { return nil },
	}
	sink := &MockAuditSink{}
	svc, _ := newMedicationFixture(api, sink)

	result := svc.Delete(context.Background(), "med-1", "nurse-1")

	assert.True(t, result.Success)
	assert.Equal(t, "Medication deleted successfully", result.Message)

	entry := sink.Entries[0]
	assert.Equal(t, models.AuditActionDelete, entry.Action)
	assert.Equal(t, "Discontinued medication med-1", entry.Details)
}

func TestMedicationDelete_RemoteFailureFallback(t *testing.T) {
	api := &MockMedicationAPI{
		DeleteMedicationFunc: func(ctx context.Context, id string) error {
			return &upstream.APIError{StatusCode: 500}
		},
	}
	sink := &MockAuditSink{}
	svc, _ := newMedicationFixture(api, sink)

	result := svc.Delete(context.Background(), "med-1", "nurse-1")

	assert.False(t, result.Success)
	assert.Equal(t, apperrors.KindRemote, result.Kind)
	assert.Equal(t, "remote record API request failed with status 500", result.Error)
	assert.False(t, sink.Entries[0].Success)
}

func TestMedicationCreate_InFlightGuardKeyedByNameAndStart(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &MockMedicationAPI{
		CreateMedicationFunc: func(ctx context.Context, payload interface{}) (*models.Medication, error) {
			close(entered)
			<-release
			return &models.Medication{ID: "med-1"}, nil
		},
	}
	svc, _ := newMedicationFixture(api, &MockAuditSink{})

	done := make(chan *dto.SubmissionResult, 1)
	go func() {
		done <- svc.Create(context.Background(), validCreateMedicationSubmission())
	}()

	<-entered
	dupe := svc.Create(context.Background(), validCreateMedicationSubmission())
	assert.False(t, dupe.Success)
	assert.Equal(t, "A submission for this record is already in progress", dupe.Error)

	close(release)
	first := <-done
	assert.True(t, first.Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.CreateMedicationCallCount))
}

func TestMedicationGet_EmptyID(t *testing.T) {
	svc, _ := newMedicationFixture(&MockMedicationAPI{}, &MockAuditSink{})

	_, err := svc.Get(context.Background(), "")

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindPrecondition, apperrors.KindOf(err))
}

func TestMedicationList_CachedAcrossCalls(t *testing.T) {
	calls := int32(0)
	api := &MockMedicationAPI{
		ListMedicationsFunc: func(ctx context.Context) ([]models.Medication, error) {
			atomic.AddInt32(&calls, 1)
			return []models.Medication{{ID: "med-1"}}, nil
		},
	}
	svc, tagCache := newMedicationFixture(api, &MockAuditSink{})

	first, err := svc.List(context.Background())
	assert.NoError(t, err)
	second, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	tagCache.InvalidateTag(cache.TagList)
	_, err = svc.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
