package meals

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

// DB is the subset of *pgxpool.Pool used by the repository.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Repository = (*PostgresRepository)(nil)

type PostgresRepository struct {
	logger *slog.Logger
	pgpool DB
}

func NewPostgresRepository(pgpool DB, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

func (r *PostgresRepository) Append(ctx context.Context, entry types.MealEntry) error {
	ctx, span := otel.Tracer("MealsRepository").Start(ctx, "Append")
	defer span.End()

	query := `
        INSERT INTO meal_entries (id, meal_date, meal_type, calories, protein, carbs, fat)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.pgpool.Exec(ctx, query,
		uuid.New(), entry.Date, string(entry.Meal), entry.Calories, entry.Protein, entry.Carbs, entry.Fat,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert meal entry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		return fmt.Errorf("failed to insert meal entry: %w", err)
	}
	span.SetStatus(codes.Ok, "Meal entry inserted")
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]types.MealEntry, error) {
	ctx, span := otel.Tracer("MealsRepository").Start(ctx, "List")
	defer span.End()

	query := `
        SELECT meal_date, meal_type, calories, protein, carbs, fat
        FROM meal_entries
        ORDER BY created_at, meal_date
    `
	rows, err := r.pgpool.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query meal entries", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to query meal entries: %w", err)
	}
	defer rows.Close()

	entries := []types.MealEntry{}
	for rows.Next() {
		var (
			e    types.MealEntry
			meal string
		)
		if err := rows.Scan(&e.Date, &meal, &e.Calories, &e.Protein, &e.Carbs, &e.Fat); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, fmt.Errorf("failed to scan meal entry: %w", err)
		}
		e.Meal = types.MealType(meal)
		e.Date = day(e.Date)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rows iteration failed")
		return nil, fmt.Errorf("error iterating meal entries: %w", err)
	}

	span.SetAttributes(attribute.Int("meals.count", len(entries)))
	span.SetStatus(codes.Ok, "Meal entries listed")
	return entries, nil
}
