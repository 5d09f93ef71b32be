package repository

import (
	"context"
	"database/sql"
	"fmt"

	"seo-optimizer/internal/domain"

	sq "github.com/Masterminds/squirrel"
)

const optimizationHistoryTable = "optimization_history"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// OptimizationRepository stores the audit trail of applied optimizations
type OptimizationRepository interface {
	Create(ctx context.Context, record *domain.AppliedOptimization) error
	ListByProduct(ctx context.Context, shop string, productID domain.ProductID, limit int) ([]*domain.AppliedOptimization, error)
}

type optimizationRepository struct {
	db *sql.DB
}

// NewOptimizationRepository creates a new instance of OptimizationRepository
func NewOptimizationRepository(db *sql.DB) OptimizationRepository {
	return &optimizationRepository{db: db}
}

// Create inserts one applied optimization
func (r *optimizationRepository) Create(ctx context.Context, record *domain.AppliedOptimization) error {
	query, args, err := psql.
		Insert(optimizationHistoryTable).
		Columns("id", "shop", "product_id", "previous_title", "new_title", "generator", "applied_at").
		Values(
			record.ID,
			record.Shop,
			record.ProductID.ExternalID(),
			record.PreviousTitle,
			record.NewTitle,
			record.Generator,
			record.AppliedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create optimization record: %w", err)
	}

	return nil
}

// ListByProduct returns the newest records first
func (r *optimizationRepository) ListByProduct(ctx context.Context, shop string, productID domain.ProductID, limit int) ([]*domain.AppliedOptimization, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := psql.
		Select("id", "shop", "product_id", "previous_title", "new_title", "generator", "applied_at").
		From(optimizationHistoryTable).
		Where(sq.Eq{"shop": shop, "product_id": productID.ExternalID()}).
		OrderBy("applied_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list optimization records: %w", err)
	}
	defer rows.Close()

	records := []*domain.AppliedOptimization{}
	for rows.Next() {
		record := &domain.AppliedOptimization{}
		var gid string
		if err := rows.Scan(
			&record.ID,
			&record.Shop,
			&gid,
			&record.PreviousTitle,
			&record.NewTitle,
			&record.Generator,
			&record.AppliedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan optimization record: %w", err)
		}

		if record.ProductID, err = domain.ParseExternalID(gid); err != nil {
			return nil, fmt.Errorf("stored optimization record has %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating optimization records: %w", err)
	}

	return records, nil
}
