package meals

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

var csvHeader = []string{"Date", "Meal", "Calories", "Protein", "Carbs", "Fat"}

var _ Repository = (*CSVRepository)(nil)

// CSVRepository keeps the calendar in a single CSV file. Appends are
// serialised within the process only.
type CSVRepository struct {
	logger *slog.Logger
	path   string
	mu     sync.Mutex
}

func NewCSVRepository(path string, logger *slog.Logger) (*CSVRepository, error) {
	r := &CSVRepository{logger: logger, path: path}
	if err := r.ensureFile(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *CSVRepository) ensureFile() error {
	_, err := os.Stat(r.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat meal file: %w", err)
	}

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("failed to create meal file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write meal file header: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (r *CSVRepository) Append(ctx context.Context, entry types.MealEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureFile(); err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to open meal file", slog.Any("error", err))
		return fmt.Errorf("failed to open meal file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write([]string{
		entry.Date.Format(dateLayout),
		string(entry.Meal),
		formatAmount(entry.Calories),
		formatAmount(entry.Protein),
		formatAmount(entry.Carbs),
		formatAmount(entry.Fat),
	})
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to append meal", slog.Any("error", err))
		return fmt.Errorf("failed to append meal: %w", err)
	}
	return nil
}

// List returns every well-formed row in file order. Malformed rows are skipped.
func (r *CSVRepository) List(ctx context.Context) ([]types.MealEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []types.MealEntry{}, nil
		}
		return nil, fmt.Errorf("failed to open meal file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	entries := []types.MealEntry{}
	line := 0
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read meal file: %w", err)
		}
		line++
		if line == 1 && len(rec) > 0 && rec[0] == csvHeader[0] {
			continue
		}
		entry, err := parseRecord(rec)
		if err != nil {
			r.logger.WarnContext(ctx, "Skipping malformed meal row", slog.Int("line", line), slog.Any("error", err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseRecord(rec []string) (types.MealEntry, error) {
	if len(rec) < len(csvHeader) {
		return types.MealEntry{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(rec))
	}
	date, err := ParseDate(rec[0])
	if err != nil {
		return types.MealEntry{}, fmt.Errorf("invalid date %q: %w", rec[0], err)
	}
	meal, _ := ParseMealType(rec[1])

	var nums [4]float64
	for i := range nums {
		v, err := strconv.ParseFloat(rec[i+2], 64)
		if err != nil {
			return types.MealEntry{}, fmt.Errorf("invalid %s %q", csvHeader[i+2], rec[i+2])
		}
		nums[i] = v
	}
	return types.MealEntry{
		Date:     date,
		Meal:     meal,
		Calories: nums[0],
		Protein:  nums[1],
		Carbs:    nums[2],
		Fat:      nums[3],
	}, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
