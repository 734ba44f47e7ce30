package nutrition

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/go-vegan-diet-assistant/internal/types"
)

type column int

const (
	colFood column = iota
	colCalories
	colProtein
	colCarbs
	colFat
	colCalcium
	colIron
)

// headerAliases maps the localized spreadsheet headers to table columns.
var headerAliases = map[string]column{
	"식품명":       colFood,
	"food":      colFood,
	"에너지(kcal)": colCalories,
	"calories":  colCalories,
	"단백질(g)":    colProtein,
	"protein":   colProtein,
	"탄수화물(g)":   colCarbs,
	"carbs":     colCarbs,
	"지방(g)":     colFat,
	"fat":       colFat,
	"칼슘(mg)":    colCalcium,
	"calcium":   colCalcium,
	"철분(mg)":    colIron,
	"iron":      colIron,
}

// Table is the read-only food lookup table, indexed by food name.
type Table struct {
	rows  map[string]types.NutritionRow
	foods []string
}

// NewTable indexes rows by trimmed food name. The first row of a duplicated name wins.
func NewTable(rows []types.NutritionRow) *Table {
	t := &Table{rows: make(map[string]types.NutritionRow, len(rows))}
	for _, r := range rows {
		r.Food = strings.TrimSpace(r.Food)
		if r.Food == "" {
			continue
		}
		if _, dup := t.rows[r.Food]; dup {
			continue
		}
		t.rows[r.Food] = r
		t.foods = append(t.foods, r.Food)
	}
	return t
}

// LoadTable reads an .xlsx (first sheet) or .csv nutrition table.
func LoadTable(path string) (*Table, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = readSpreadsheet(path)
	case ".csv":
		records, err = readCSV(path)
	default:
		return nil, fmt.Errorf("unsupported nutrition table %q: %w", path, types.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	return parseRecords(records)
}

func readSpreadsheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open nutrition spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("nutrition spreadsheet %q has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open nutrition csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse nutrition csv: %w", err)
	}
	return records, nil
}

func parseRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("nutrition table is empty: %w", types.ErrInvalidInput)
	}

	index := map[column]int{}
	for i, h := range records[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if c, ok := headerAliases[h]; ok {
			index[c] = i
			continue
		}
		if c, ok := headerAliases[strings.ToLower(h)]; ok {
			index[c] = i
		}
	}
	if _, ok := index[colFood]; !ok {
		return nil, fmt.Errorf("nutrition table has no food name column: %w", types.ErrInvalidInput)
	}

	rows := make([]types.NutritionRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		cell := func(c column) string {
			i, ok := index[c]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		rows = append(rows, types.NutritionRow{
			Food:     cell(colFood),
			Calories: parseAmount(cell(colCalories)),
			Protein:  parseAmount(cell(colProtein)),
			Carbs:    parseAmount(cell(colCarbs)),
			Fat:      parseAmount(cell(colFat)),
			Calcium:  parseAmount(cell(colCalcium)),
			Iron:     parseAmount(cell(colIron)),
		})
	}
	return NewTable(rows), nil
}

// parseAmount treats blanks, dashes and garbage as zero.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Lookup returns the row whose name equals the trimmed input.
func (t *Table) Lookup(name string) (types.NutritionRow, bool) {
	if t == nil {
		return types.NutritionRow{}, false
	}
	row, ok := t.rows[strings.TrimSpace(name)]
	return row, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.foods)
}

// Foods lists the food names in file order.
func (t *Table) Foods() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.foods...)
}
