package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/schoolmed/healthdesk/internal/app/models"
	"github.com/schoolmed/healthdesk/internal/app/models/dto"
	"github.com/schoolmed/healthdesk/internal/app/repositories"
	"github.com/schoolmed/healthdesk/internal/pkg/apperrors"
	"github.com/schoolmed/healthdesk/internal/pkg/realtime"
)

// AuditStore is the persistence slice the audit service consumes.
type AuditStore interface {
	Insert(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEntry, error)
	Count(ctx context.Context, filter models.AuditFilter) (int64, error)
	GetByID(ctx context.Context, id string) (*models.AuditEntry, error)
}

// AuditService persists audit entries and feeds them to the live
// dashboard stream. It is the concrete AuditSink of the submission
// pipeline.
type AuditService struct {
	store  AuditStore
	hub    *realtime.Hub
	logger zerolog.Logger
}

// NewAuditService creates an audit service. hub may be nil when no live
// feed is wanted.
func NewAuditService(store AuditStore, hub *realtime.Hub, logger zerolog.Logger) *AuditService {
	return &AuditService{
		store:  store,
		hub:    hub,
		logger: logger,
	}
}

// Record assigns identity to the entry, persists it, and broadcasts it to
// connected dashboard clients. The broadcast is best-effort and happens
// even when persistence fails, so a watching admin still sees the event.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	err := s.store.Insert(ctx, entry)

	if s.hub != nil {
		s.hub.Broadcast(entry)
	}

	if err != nil {
		return fmt.Errorf("failed to persist audit entry: %w", err)
	}
	return nil
}

// List returns a filtered, paginated page of audit entries for the admin
// dashboard.
func (s *AuditService) List(ctx context.Context, req *dto.ListAuditLogsRequest) (*dto.PaginatedResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	filter := models.AuditFilter{
		Resource: req.Resource,
		Action:   req.Action,
		Success:  req.Success,
		Limit:    req.PageSize,
		Offset:   (req.Page - 1) * req.PageSize,
	}

	entries, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing audit entries: %w", err)
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error counting audit entries: %w", err)
	}

	totalPages := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	return &dto.PaginatedResponse{
		Items: entries,
		Pagination: dto.PaginationInfo{
			Page:       req.Page,
			PageSize:   req.PageSize,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

// Get returns one audit entry for the dashboard detail view.
func (s *AuditService) Get(ctx context.Context, id string) (*models.AuditEntry, error) {
	if id == "" {
		return nil, apperrors.ErrResourceNotFound
	}
	entry, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving audit entry: %w", err)
	}
	return entry, nil
}
