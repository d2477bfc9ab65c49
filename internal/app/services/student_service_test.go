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

func newStudentFixture(api *MockStudentAPI, sink *MockAuditSink) (StudentService, *cache.TagCache) {
	testNow := time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)
	tagCache := cache.NewTagCache(0)
	validator := validation.NewValidator(clock.Fixed(testNow))
	svc := NewStudentService(api, sink, tagCache, validator, zerolog.Nop())
	return svc, tagCache
}

func validCreateStudentRequest() *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		StudentNumber: "STU-2026-0042",
		FirstName:     "Amelia",
		LastName:      "O'Brien",
		DateOfBirth:   "2015-09-14",
		Grade:         "5",
		Gender:        "FEMALE",
		CreatedBy:     "nurse-1",
	}
}

func TestStudentCreate_Success(t *testing.T) {
	api := &MockStudentAPI{
		CreateStudentFunc: func(ctx context.Context, payload interface{}) (*models.Student, error) {
			return &models.Student{ID: "stu-1", StudentNumber: "STU-2026-0042", FirstName: "Amelia", LastName: "O'Brien"}, nil
		},
	}
	sink := &MockAuditSink{}
	svc, tagCache := newStudentFixture(api, sink)

	tagCache.Set("students:list", cache.PathStudents, []string{cache.TagStudents, cache.TagList}, "stale")

	result := svc.Create(context.Background(), validCreateStudentRequest())

	assert.True(t, result.Success)
	assert.Equal(t, "Student created successfully", result.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.CreateStudentCallCount))

	assert.Equal(t, int32(1), atomic.LoadInt32(&sink.RecordCallCount))
	entry := sink.Entries[0]
	assert.Equal(t, models.AuditActionCreate, entry.Action)
	assert.Equal(t, "student", entry.Resource)
	assert.Equal(t, "stu-1", entry.ResourceID)
	assert.Equal(t, "nurse-1", entry.ActorID)
	assert.True(t, entry.Success)

	// The create invalidated the collection views
	_, ok := tagCache.Get("students:list")
	assert.False(t, ok)
}

func TestStudentCreate_ValidationFailureNeverCallsAPI(t *testing.T) {
	api := &MockStudentAPI{}
	sink := &MockAuditSink{}
	svc, _ := newStudentFixture(api, sink)

	result := svc.Create(context.Background(), &dto.CreateStudentRequest{})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.FieldErrors)
	assert.Contains(t, result.FieldErrors, "studentNumber")
	assert.Equal(t, apperrors.KindValidation, result.Kind)

	assert.Equal(t, int32(0), atomic.LoadInt32(&api.CreateStudentCallCount))
	assert.Equal(t, int32(0), atomic.LoadInt32(&sink.RecordCallCount))
}

func TestStudentCreate_RemoteFailureIsCaught(t *testing.T) {
	api := &MockStudentAPI{
		CreateStudentFunc: func(ctx context.Context, payload interface{}) (*models.Student, error) {
			return nil, &upstream.APIError{StatusCode: 409, Message: "Student number already exists"}
		},
	}
	sink := &MockAuditSink{}
	svc, _ := newStudentFixture(api, sink)

	result := svc.Create(context.Background(), validCreateStudentRequest())

	assert.False(t, result.Success)
	assert.Equal(t, "Student number already exists", result.Error)
	assert.Equal(t, apperrors.KindRemote, result.Kind)

	// Exactly one failure audit
	assert.Equal(t, int32(1), atomic.LoadInt32(&sink.RecordCallCount))
	entry := sink.Entries[0]
	assert.False(t, entry.Success)
	assert.Equal(t, "Student number already exists", entry.ErrorMessage)
}

func TestStudentCreate_RemoteFailureFallbackMessage(t *testing.T) {
	api := &MockStudentAPI{
		CreateStudentFunc: func(ctx context.Context, payload interface{}) (*models.Student, error) {
			return nil, &upstream.APIError{StatusCode: 500}
		},
	}
	sink := &MockAuditSink{}
	svc, _ := newStudentFixture(api, sink)

	result := svc.Create(context.Background(), validCreateStudentRequest())

	assert.False(t, result.Success)
	// An APIError without a message degrades to its status text
	assert.Equal(t, "remote record API request failed with status 500", result.Error)
	assert.Equal(t, apperrors.KindRemote, result.Kind)
}

func TestStudentCreate_AuditFailureDoesNotAffectOutcome(t *testing.T) {
	api := &MockStudentAPI{
		CreateStudentFunc: func(ctx context.Context, payload interface{}) (*models.Student, error) {
			return &models.Student{ID: "stu-1"}, nil
		},
	}
	sink := &MockAuditSink{
		RecordFunc: func(ctx context.Context, entry *models.AuditEntry) error {
			return assert.AnError
		},
	}
	svc, _ := newStudentFixture(api, sink)

	result := svc.Create(context.Background(), validCreateStudentRequest())

	assert.True(t, result.Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(&sink.RecordCallCount))
}

func TestStudentUpdate_EmptyIDNeverCallsAPI(t *testing.T) {
	api := &MockStudentAPI{}
	sink := &MockAuditSink{}
	svc, _ := newStudentFixture(api, sink)

	name := "Maya"
	result := svc.Update(context.Background(), "", &dto.UpdateStudentRequest{FirstName: &name})

	assert.False(t, result.Success)
	assert.Equal(t, "Student ID is required", result.Error)
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.UpdateStudentCallCount))
	assert.Equal(t, int32(0), atomic.LoadInt32(&sink.RecordCallCount))
}

func TestStudentUpdate_EmptyPatchRejected(t *testing.T) {
	api := &MockStudentAPI{}
	sink := &MockAuditSink{}
	svc, _ := newStudentFixture(api, sink)

	result := svc.Update(context.Background(), "stu-1", &dto.UpdateStudentRequest{})

	assert.False(t, result.Success)
	assert.Equal(t, "At least one field must be provided for update", result.FieldErrors[validation.FormErrorKey])
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.UpdateStudentCallCount))
}

func TestStudentUpdate_OnlySuppliedFieldsPatched(t *testing.T) {
	var gotPatch map[string]interface{}
	api := &MockStudentAPI{
		UpdateStudentFunc: func(ctx context.Context, id string, patch map[string]interface{}) (*models.Student, error) {
			gotPatch = patch
			return &models.Student{ID: id}, nil
		},
	}
	sink := &MockAuditSink{}
	svc, _ := newStudentFixture(api, sink)

	grade := "6"
	result := svc.Update(context.Background(), "stu-1", &dto.UpdateStudentRequest{
		Grade:     &grade,
		NurseID:   dto.NullableString{Set: true, Valid: false},
		UpdatedBy: "nurse-2",
	})

	assert.True(t, result.Success)
	assert.Equal(t, "6", gotPatch["grade"])
	// Explicit null travels as nil to unassign the nurse
	nurse, present := gotPatch["nurseId"]
	assert.True(t, present)
	assert.Nil(t, nurse)
	assert.Equal(t, "nurse-2", gotPatch["updatedBy"])
	assert.NotContains(t, gotPatch, "firstName")

	// The change set is recorded on the audit entry
	assert.Equal(t, gotPatch, sink.Entries[0].Changes)
}

func TestStudentDelete_Success(t *testing.T) {
	api := &MockStudentAPI{
		DeleteStudentFunc: func(ctx context.Context, id string) error { return nil },
	}
	sink := &MockAuditSink{}
	svc, tagCache := newStudentFixture(api, sink)

	tagCache.Set("student:stu-1", cache.ItemPath(cache.TagStudents, "stu-1"),
		[]string{cache.TagStudents, cache.ItemTag(cache.TagStudents, "stu-1")}, "cached")

	result := svc.Delete(context.Background(), "stu-1", "nurse-1")

	assert.True(t, result.Success)
	assert.Equal(t, "Student deleted successfully", result.Message)

	entry := sink.Entries[0]
	assert.Equal(t, models.AuditActionDelete, entry.Action)
	assert.Equal(t, "Deactivated student stu-1", entry.Details)

	_, ok := tagCache.Get("student:stu-1")
	assert.False(t, ok)
}

func TestStudentDelete_EmptyID(t *testing.T) {
	api := &MockStudentAPI{}
	svc, _ := newStudentFixture(api, &MockAuditSink{})

	result := svc.Delete(context.Background(), "", "nurse-1")

	assert.False(t, result.Success)
	assert.Equal(t, "Student ID is required", result.Error)
	assert.Equal(t, int32(0), atomic.LoadInt32(&api.DeleteStudentCallCount))
}

func TestStudentUpdate_InFlightGuardRejectsDuplicate(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &MockStudentAPI{
		UpdateStudentFunc: func(ctx context.Context, id string, patch map[string]interface{}) (*models.Student, error) {
			close(entered)
			<-release
			return &models.Student{ID: id}, nil
		},
	}
	sink := &MockAuditSink{}
	svc, _ := newStudentFixture(api, sink)

	grade := "6"
	done := make(chan *dto.SubmissionResult, 1)
	go func() {
		done <- svc.Update(context.Background(), "stu-1", &dto.UpdateStudentRequest{Grade: &grade})
	}()

	<-entered
	dupe := svc.Update(context.Background(), "stu-1", &dto.UpdateStudentRequest{Grade: &grade})
	assert.False(t, dupe.Success)
	assert.Equal(t, "A submission for this record is already in progress", dupe.Error)

	close(release)
	first := <-done
	assert.True(t, first.Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.UpdateStudentCallCount))
}

func TestStudentGet_ServedFromCacheUntilInvalidated(t *testing.T) {
	api := &MockStudentAPI{
		GetStudentFunc: func(ctx context.Context, id string) (*models.Student, error) {
			return &models.Student{ID: id, FirstName: "Amelia"}, nil
		},
	}
	svc, tagCache := newStudentFixture(api, &MockAuditSink{})

	first, err := svc.Get(context.Background(), "stu-1")
	assert.NoError(t, err)
	assert.Equal(t, "Amelia", first.FirstName)

	second, err := svc.Get(context.Background(), "stu-1")
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&api.GetStudentCallCount))

	tagCache.InvalidateTag(cache.ItemTag(cache.TagStudents, "stu-1"))

	_, err = svc.Get(context.Background(), "stu-1")
	assert.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&api.GetStudentCallCount))
}

func TestStudentGet_EmptyID(t *testing.T) {
	svc, _ := newStudentFixture(&MockStudentAPI{}, &MockAuditSink{})

	_, err := svc.Get(context.Background(), "")

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindPrecondition, apperrors.KindOf(err))
}
