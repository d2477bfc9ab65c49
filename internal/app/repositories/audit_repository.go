package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolmed/healthdesk/internal/app/models"
	"github.com/schoolmed/healthdesk/internal/pkg/dberrors"
	"github.com/schoolmed/healthdesk/internal/pkg/logger"
)

// ErrNotFound is the shared not-found error for repository lookups.
var ErrNotFound = errors.New("resource not found")

// AuditRepository handles database operations for audit entries.
type AuditRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert writes one audit entry. Entries are append-only; there is no
// update path.
func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditEntry) error {
	var changes []byte
	if entry.Changes != nil {
		raw, err := json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("failed to encode audit changes: %w", err)
		}
		changes = raw
	}

	sql, args, err := r.sb.Insert("audit_log").
		Columns("id", "action", "resource", "resource_id", "actor_id", "details", "success", "changes", "error_message", "created_at").
		Values(entry.ID, entry.Action, entry.Resource, nullIfEmpty(entry.ResourceID), nullIfEmpty(entry.ActorID),
			entry.Details, entry.Success, changes, nullIfEmpty(entry.ErrorMessage), entry.CreatedAt).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building insert audit entry SQL")
		return fmt.Errorf("failed to build insert audit entry query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		// A retried submission can replay the same entry; that write
		// already succeeded once
		if dberrors.IsDuplicateConstraintError(err, "audit_log_pkey") {
			logger.Debug().Str("entryID", entry.ID.String()).Msg("Audit entry already recorded, skipping")
			return nil
		}
		logger.Error().Err(err).Msg("Error executing insert audit entry query")
		return fmt.Errorf("error inserting audit entry: %w", err)
	}
	return nil
}

// applyFilter adds the filter conditions shared by List and Count.
func applyFilter(builder squirrel.SelectBuilder, filter models.AuditFilter) squirrel.SelectBuilder {
	if filter.Resource != "" {
		builder = builder.Where(squirrel.Eq{"resource": filter.Resource})
	}
	if filter.Action != "" {
		builder = builder.Where(squirrel.Eq{"action": filter.Action})
	}
	if filter.Success != nil {
		builder = builder.Where(squirrel.Eq{"success": *filter.Success})
	}
	return builder
}

// List retrieves audit entries matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditEntry, error) {
	builder := applyFilter(r.sb.Select("id", "action", "resource", "resource_id", "actor_id", "details", "success", "changes", "error_message", "created_at").
		From("audit_log"), filter).
		OrderBy("created_at DESC")

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list audit entries SQL")
		return nil, fmt.Errorf("failed to build list audit entries query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of audit entries matching the filter.
func (r *AuditRepository) Count(ctx context.Context, filter models.AuditFilter) (int64, error) {
	sql, args, err := applyFilter(r.sb.Select("COUNT(*)").From("audit_log"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count audit entries query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting audit entries: %w", err)
	}
	return count, nil
}

// GetByID retrieves one audit entry.
func (r *AuditRepository) GetByID(ctx context.Context, id string) (*models.AuditEntry, error) {
	sql, args, err := r.sb.Select("id", "action", "resource", "resource_id", "actor_id", "details", "success", "changes", "error_message", "created_at").
		From("audit_log").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get audit entry query: %w", err)
	}

	entry, err := scanAuditEntry(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

// scanAuditEntry scans one row into an AuditEntry, decoding the nullable
// columns and the JSON changes payload.
func scanAuditEntry(row pgx.Row) (*models.AuditEntry, error) {
	var (
		entry        models.AuditEntry
		resourceID   *string
		actorID      *string
		changes      []byte
		errorMessage *string
	)
	if err := row.Scan(&entry.ID, &entry.Action, &entry.Resource, &resourceID, &actorID,
		&entry.Details, &entry.Success, &changes, &errorMessage, &entry.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning audit entry: %w", err)
	}

	if resourceID != nil {
		entry.ResourceID = *resourceID
	}
	if actorID != nil {
		entry.ActorID = *actorID
	}
	if errorMessage != nil {
		entry.ErrorMessage = *errorMessage
	}
	if len(changes) > 0 {
		if err := json.Unmarshal(changes, &entry.Changes); err != nil {
			return nil, fmt.Errorf("error decoding audit changes: %w", err)
		}
	}
	return &entry, nil
}

// nullIfEmpty maps an empty string to SQL NULL.
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
