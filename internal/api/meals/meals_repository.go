package meals

import (
	"context"
	"strings"
	"time"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

const dateLayout = "2006-01-02"

// Repository stores the append-only meal calendar.
type Repository interface {
	Append(ctx context.Context, entry types.MealEntry) error
	List(ctx context.Context) ([]types.MealEntry, error)
}

// mealAliases accepts the Korean slot names written by older calendar files.
var mealAliases = map[string]types.MealType{
	"아침": types.MealBreakfast,
	"점심": types.MealLunch,
	"저녁": types.MealDinner,
	"간식": types.MealSnack,
}

func ParseMealType(s string) (types.MealType, bool) {
	s = strings.TrimSpace(s)
	if m, ok := mealAliases[s]; ok {
		return m, true
	}
	m := types.MealType(strings.ToLower(s))
	return m, m.Valid()
}

// ParseDate reads YYYY-MM-DD and tolerates a trailing time part.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	return time.Parse(dateLayout, s)
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// windowStart returns now minus days in the same frame as stored entry dates:
// the local wall clock of now read as UTC.
func windowStart(now time.Time, days int) time.Time {
	y, m, d := now.Date()
	hh, mm, ss := now.Clock()
	return time.Date(y, m, d-days, hh, mm, ss, now.Nanosecond(), time.UTC)
}
