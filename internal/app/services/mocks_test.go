package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/schoolmed/healthdesk/internal/app/models"
)

// --- MockStudentAPI ---
// Compile-time check to ensure MockStudentAPI implements StudentAPI
var _ StudentAPI = (*MockStudentAPI)(nil)

// MockStudentAPI is a mock implementation of StudentAPI.
type MockStudentAPI struct {
	CreateStudentFunc func(ctx context.Context, payload interface{}) (*models.Student, error)
	UpdateStudentFunc func(ctx context.Context, id string, patch map[string]interface{}) (*models.Student, error)
	DeleteStudentFunc func(ctx context.Context, id string) error
	GetStudentFunc    func(ctx context.Context, id string) (*models.Student, error)
	ListStudentsFunc  func(ctx context.Context) ([]models.Student, error)

	CreateStudentCallCount int32
	UpdateStudentCallCount int32
	DeleteStudentCallCount int32
	GetStudentCallCount    int32
	ListStudentsCallCount  int32
}

func (m *MockStudentAPI) CreateStudent(ctx context.Context, payload interface{}) (*models.Student, error) {
	atomic.AddInt32(&m.CreateStudentCallCount, 1)
	if m.CreateStudentFunc != nil {
		return m.CreateStudentFunc(ctx, payload)
	}
	return nil, errors.New("CreateStudentFunc not implemented in mock")
}

func (m *MockStudentAPI) UpdateStudent(ctx context.Context, id string, patch map[string]interface{}) (*models.Student, error) {
	atomic.AddInt32(&m.UpdateStudentCallCount, 1)
	if m.UpdateStudentFunc != nil {
		return m.UpdateStudentFunc(ctx, id, patch)
	}
	return nil, errors.New("UpdateStudentFunc not implemented in mock")
}

func (m *MockStudentAPI) DeleteStudent(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteStudentCallCount, 1)
	if m.DeleteStudentFunc != nil {
		return m.DeleteStudentFunc(ctx, id)
	}
	return errors.New("DeleteStudentFunc not implemented in mock")
}

func (m *MockStudentAPI) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	atomic.AddInt32(&m.GetStudentCallCount, 1)
	if m.GetStudentFunc != nil {
		return m.GetStudentFunc(ctx, id)
	}
	return nil, errors.New("GetStudentFunc not implemented in mock")
}

func (m *MockStudentAPI) ListStudents(ctx context.Context) ([]models.Student, error) {
	atomic.AddInt32(&m.ListStudentsCallCount, 1)
	if m.ListStudentsFunc != nil {
		return m.ListStudentsFunc(ctx)
	}
	return nil, nil
}

// --- MockMedicationAPI ---
// Compile-time check to ensure MockMedicationAPI implements MedicationAPI
var _ MedicationAPI = (*MockMedicationAPI)(nil)

// MockMedicationAPI is a mock implementation of MedicationAPI.
type MockMedicationAPI struct {
	CreateMedicationFunc func(ctx context.Context, payload interface{}) (*models.Medication, error)
	UpdateMedicationFunc func(ctx context.Context, id string, patch map[string]interface{}) (*models.Medication, error)
	DeleteMedicationFunc func(ctx context.Context, id string) error
	GetMedicationFunc    func(ctx context.Context, id string) (*models.Medication, error)
	ListMedicationsFunc  func(ctx context.Context) ([]models.Medication, error)

	CreateMedicationCallCount int32
	UpdateMedicationCallCount int32
	DeleteMedicationCallCount int32
}

func (m *MockMedicationAPI) CreateMedication(ctx context.Context, payload interface{}) (*models.Medication, error) {
	atomic.AddInt32(&m.CreateMedicationCallCount, 1)
	if m.CreateMedicationFunc != nil {
		return m.CreateMedicationFunc(ctx, payload)
	}
	return nil, errors.New("CreateMedicationFunc not implemented in mock")
}

func (m *MockMedicationAPI) UpdateMedication(ctx context.Context, id string, patch map[string]interface{}) (*models.Medication, error) {
	atomic.AddInt32(&m.UpdateMedicationCallCount, 1)
	if m.UpdateMedicationFunc != nil {
		return m.UpdateMedicationFunc(ctx, id, patch)
	}
	return nil, errors.New("UpdateMedicationFunc not implemented in mock")
}

func (m *MockMedicationAPI) DeleteMedication(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteMedicationCallCount, 1)
	if m.DeleteMedicationFunc != nil {
		return m.DeleteMedicationFunc(ctx, id)
	}
	return errors.New("DeleteMedicationFunc not implemented in mock")
}

func (m *MockMedicationAPI) GetMedication(ctx context.Context, id string) (*models.Medication, error) {
	if m.GetMedicationFunc != nil {
		return m.GetMedicationFunc(ctx, id)
	}
	return nil, errors.New("GetMedicationFunc not implemented in mock")
}

func (m *MockMedicationAPI) ListMedications(ctx context.Context) ([]models.Medication, error) {
	if m.ListMedicationsFunc != nil {
		return m.ListMedicationsFunc(ctx)
	}
	return nil, nil
}

// --- MockAuditSink ---
// Compile-time check to ensure MockAuditSink implements AuditSink
var _ AuditSink = (*MockAuditSink)(nil)

// MockAuditSink captures recorded audit entries.
type MockAuditSink struct {
	RecordFunc func(ctx context.Context, entry *models.AuditEntry) error

	RecordCallCount int32
	Entries         []*models.AuditEntry
}

func (m *MockAuditSink) Record(ctx context.Context, entry *models.AuditEntry) error {
	atomic.AddInt32(&m.RecordCallCount, 1)
	m.Entries = append(m.Entries, entry)
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, entry)
	}
	return nil
}
