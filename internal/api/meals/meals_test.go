package meals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

func date(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newCSVRepo(t *testing.T) (*CSVRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meal_data.csv")
	repo, err := NewCSVRepository(path, slog.Default())
	require.NoError(t, err)
	return repo, path
}

func TestParseHelpers(t *testing.T) {
	d, err := ParseDate("2025-03-14 00:00:00")
	require.NoError(t, err)
	assert.Equal(t, date("2025-03-14"), d)

	_, err = ParseDate("14/03/2025")
	assert.Error(t, err)

	m, ok := ParseMealType("점심")
	assert.True(t, ok)
	assert.Equal(t, types.MealLunch, m)

	m, ok = ParseMealType(" Dinner ")
	assert.True(t, ok)
	assert.Equal(t, types.MealDinner, m)

	_, ok = ParseMealType("brunch")
	assert.False(t, ok)
}

func TestCSVRepository(t *testing.T) {
	ctx := context.Background()
	repo, path := newCSVRepo(t)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Date,Meal,Calories,Protein,Carbs,Fat\n", string(raw))

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, repo.Append(ctx, types.MealEntry{Date: date("2025-03-14"), Meal: types.MealLunch, Calories: 540, Protein: 28.5, Carbs: 70, Fat: 14}))
	require.NoError(t, repo.Append(ctx, types.MealEntry{Date: date("2025-03-15"), Meal: types.MealSnack, Calories: 120}))

	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2025-03-14,lunch,540,28.5,70,14", lines[1])

	entries, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, types.MealSnack, entries[1].Meal)
	assert.Equal(t, 28.5, entries[0].Protein)
}

func TestCSVRepositoryReadsLegacyRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meal_data.csv")
	content := "Date,Meal,Calories,Protein,Carbs,Fat\n" +
		"2025-03-01 00:00:00,아침,400,20,50,10\n" +
		"garbage,lunch,1,1,1,1\n" +
		"2025-03-02,저녁,600,30,80,20\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo, err := NewCSVRepository(path, slog.Default())
	require.NoError(t, err)

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, types.MealBreakfast, entries[0].Meal)
	assert.Equal(t, date("2025-03-01"), entries[0].Date)
	assert.Equal(t, types.MealDinner, entries[1].Meal)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	entries := []types.MealEntry{
		{Date: date("2025-03-13"), Calories: 500, Protein: 20, Carbs: 60, Fat: 10},
		{Date: date("2025-03-01"), Calories: 900},
		{Date: date("2025-03-08"), Calories: 300, Protein: 10},
		{Date: date("2025-03-13"), Calories: 250, Protein: 5, Carbs: 30, Fat: 5},
		{Date: date("2025-03-07"), Calories: 111},
	}

	week := Summarize(entries, now.AddDate(0, 0, -7))
	require.Len(t, week, 2)
	assert.Equal(t, "2025-03-08", week[0].Date)
	assert.Equal(t, types.DailySummary{Date: "2025-03-13", Calories: 750, Protein: 25, Carbs: 90, Fat: 15}, week[1])

	month := Summarize(entries, now.AddDate(0, 0, -30))
	require.Len(t, month, 4)
	assert.Equal(t, "2025-03-01", month[0].Date)

	assert.Equal(t, []types.DailySummary{}, Summarize(nil, now))
}

func TestSummarize_LocalClockAheadOfUTC(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	entries := []types.MealEntry{
		{Date: date("2025-03-07"), Calories: 100},
		{Date: date("2025-03-08"), Calories: 200},
	}

	for _, now := range []time.Time{
		time.Date(2025, 3, 14, 8, 0, 0, 0, seoul),
		time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC),
	} {
		week := Summarize(entries, windowStart(now, 7))
		require.Len(t, week, 1, now.String())
		assert.Equal(t, "2025-03-08", week[0].Date)
	}
}

func TestWindowStart(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	now := time.Date(2025, 3, 14, 8, 30, 0, 0, seoul)
	assert.Equal(t, time.Date(2025, 3, 7, 8, 30, 0, 0, time.UTC), windowStart(now, 7))
	assert.Equal(t, time.Date(2025, 2, 12, 8, 30, 0, 0, time.UTC), windowStart(now, 30))
}

func TestRecommend(t *testing.T) {
	rec := Recommend([]types.MealEntry{
		{Calories: 600, Protein: 40, Carbs: 250, Fat: 60},
		{Calories: 400, Protein: 20, Carbs: 250, Fat: 60},
	})
	assert.Equal(t, 500.0, rec.AvgCalories)
	assert.Equal(t, 30.0, rec.AvgProtein)
	assert.Equal(t, []string{adviceProtein}, rec.Advice)

	rec = Recommend([]types.MealEntry{{Protein: 60, Carbs: 100, Fat: 10}})
	assert.Equal(t, []string{adviceCarbs, adviceFat}, rec.Advice)

	rec = Recommend([]types.MealEntry{{Protein: 50, Carbs: 200, Fat: 50}})
	assert.Empty(t, rec.Advice)
}

type failingRepo struct{}

func (failingRepo) Append(context.Context, types.MealEntry) error {
	return errors.New("disk full")
}

func (failingRepo) List(context.Context) ([]types.MealEntry, error) {
	return nil, errors.New("disk gone")
}

func TestServiceImpl(t *testing.T) {
	ctx := context.Background()

	t.Run("AddMeal validation", func(t *testing.T) {
		repo, _ := newCSVRepo(t)
		svc := NewServiceImpl(repo, slog.Default())

		tests := []struct {
			name  string
			entry types.MealEntry
		}{
			{"zero date", types.MealEntry{Meal: types.MealLunch}},
			{"unknown meal", types.MealEntry{Date: date("2025-03-14"), Meal: "brunch"}},
			{"negative", types.MealEntry{Date: date("2025-03-14"), Meal: types.MealLunch, Fat: -1}},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				assert.ErrorIs(t, svc.AddMeal(ctx, tc.entry), types.ErrInvalidInput)
			})
		}

		entries, err := svc.Meals(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Summary rejects other periods", func(t *testing.T) {
		repo, _ := newCSVRepo(t)
		_, err := NewServiceImpl(repo, slog.Default()).Summary(ctx, 14, time.Now())
		assert.ErrorIs(t, err, types.ErrInvalidInput)
	})

	t.Run("Recommendations without meals", func(t *testing.T) {
		repo, _ := newCSVRepo(t)
		_, err := NewServiceImpl(repo, slog.Default()).Recommendations(ctx)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("Repository failures", func(t *testing.T) {
		svc := NewServiceImpl(failingRepo{}, slog.Default())
		err := svc.AddMeal(ctx, types.MealEntry{Date: date("2025-03-14"), Meal: types.MealLunch})
		assert.ErrorContains(t, err, "disk full")
		_, err = svc.Summary(ctx, 7, time.Now())
		assert.Error(t, err)
		_, err = svc.Recommendations(ctx)
		assert.Error(t, err)
	})
}

func TestPostgresRepository(t *testing.T) {
	ctx := context.Background()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	repo := NewPostgresRepository(pool, slog.Default())

	t.Run("Append", func(t *testing.T) {
		entry := types.MealEntry{Date: date("2025-03-14"), Meal: types.MealDinner, Calories: 700, Protein: 35, Carbs: 90, Fat: 22}
		pool.ExpectExec("INSERT INTO meal_entries").
			WithArgs(pgxmock.AnyArg(), entry.Date, "dinner", 700.0, 35.0, 90.0, 22.0).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.Append(ctx, entry))
		require.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("Append error", func(t *testing.T) {
		pool.ExpectExec("INSERT INTO meal_entries").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("connection reset"))

		err := repo.Append(ctx, types.MealEntry{Date: date("2025-03-14"), Meal: types.MealLunch})
		assert.ErrorContains(t, err, "connection reset")
		require.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("List", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"meal_date", "meal_type", "calories", "protein", "carbs", "fat"}).
			AddRow(date("2025-03-13"), "breakfast", 400.0, 20.0, 55.0, 12.0).
			AddRow(date("2025-03-14"), "snack", 150.0, 4.0, 20.0, 6.0)
		pool.ExpectQuery("SELECT meal_date, meal_type").WillReturnRows(rows)

		entries, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, types.MealBreakfast, entries[0].Meal)
		assert.Equal(t, 150.0, entries[1].Calories)
		require.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("List error", func(t *testing.T) {
		pool.ExpectQuery("SELECT meal_date, meal_type").WillReturnError(errors.New("relation does not exist"))

		_, err := repo.List(ctx)
		assert.Error(t, err)
		require.NoError(t, pool.ExpectationsWereMet())
	})
}

func TestHandlers(t *testing.T) {
	repo, _ := newCSVRepo(t)
	h := NewHandlerImpl(NewServiceImpl(repo, slog.Default()), slog.Default())
	h.now = func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) }

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.AddMeal(w, httptest.NewRequest(http.MethodPost, "/api/v1/meals", bytes.NewBufferString(body)))
		return w
	}

	t.Run("Recommendations before any meal", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Recommendations(w, httptest.NewRequest(http.MethodGet, "/api/v1/meals/recommendations", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("AddMeal", func(t *testing.T) {
		w := post(`{"date":"2025-03-13","meal":"lunch","calories":540,"protein":28,"carbs":70,"fat":14}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		w = post(`{"meal":"간식","calories":200,"protein":5,"carbs":30,"fat":8}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		var entry types.MealEntry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
		assert.Equal(t, types.MealSnack, entry.Meal)
		assert.Equal(t, date("2025-03-14"), entry.Date)
	})

	t.Run("AddMeal invalid", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, post(`{"date":"13.03.2025","meal":"lunch"}`).Code)
		assert.Equal(t, http.StatusBadRequest, post(`{"meal":"brunch"}`).Code)
		assert.Equal(t, http.StatusBadRequest, post(`{"meal":"lunch","calories":-5}`).Code)
		assert.Equal(t, http.StatusBadRequest, post(`not json`).Code)
	})

	t.Run("ListMeals", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ListMeals(w, httptest.NewRequest(http.MethodGet, "/api/v1/meals", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		var entries []types.MealEntry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
		assert.Len(t, entries, 2)
	})

	t.Run("Summary", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Summary(w, httptest.NewRequest(http.MethodGet, "/api/v1/meals/summary?days=30", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		var summary []types.DailySummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		require.Len(t, summary, 2)
		assert.Equal(t, "2025-03-13", summary[0].Date)

		w = httptest.NewRecorder()
		h.Summary(w, httptest.NewRequest(http.MethodGet, "/api/v1/meals/summary?days=abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = httptest.NewRecorder()
		h.Summary(w, httptest.NewRequest(http.MethodGet, "/api/v1/meals/summary?days=90", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Recommendations", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Recommendations(w, httptest.NewRequest(http.MethodGet, "/api/v1/meals/recommendations", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		var rec types.MealRecommendations
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
		assert.Equal(t, 370.0, rec.AvgCalories)
		assert.Len(t, rec.Advice, 3)
	})
}
