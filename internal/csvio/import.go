package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/money"
	"github.com/centsible/centsible/internal/sanitize"
	"github.com/google/uuid"
)

// Options controls an import run.
type Options struct {
	Now   func() time.Time
	NewID func() string
	// OnRow, when set, is called after each data row with the count of
	// rows processed so far and the total. Used for progress reporting.
	OnRow           func(processed, total int)
	AllowDuplicates bool
}

// Result is the outcome of one import run. Row errors are 1-indexed
// against the data rows of the original file; the header row is not a
// data row.
type Result struct {
	Expenses      []model.Expense
	NewCategories []model.Category
	RowErrors     []string
	Warnings      []string
	Imported      int
	Skipped       int
}

var requiredColumns = []string{"date", "amount", "category"}

// Import parses delimited text into new expense records, skipping bad
// rows instead of aborting. Only header-level problems (missing required
// columns) or an unreadable file fail the whole batch. Category strings
// not already known case-insensitively yield new Category entries with
// auto-assigned colors, appended in encounter order.
func Import(data []byte, existing []model.Expense, categories []model.Category, opts Options) (*Result, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	data = bytes.TrimPrefix(data, []byte(bom))
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // validated per row

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file is empty", common.ErrMissingColumns)
	}

	result := &Result{}
	columns, err := parseHeader(records[0], result)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[existing[i].DedupeKey()] = true
	}
	known := make(map[string]bool, len(categories))
	for i := range categories {
		known[strings.ToLower(categories[i].Name)] = true
	}

	now := opts.Now()
	total := len(records) - 1
	for i, rec := range records[1:] {
		rowNum := i + 1

		expense, rowErr := parseRow(rec, columns, now, opts.NewID)
		switch {
		case rowErr != "":
			result.Skipped++
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("row %d: %s", rowNum, rowErr))
		case !opts.AllowDuplicates && seen[expense.DedupeKey()]:
			result.Skipped++
			result.RowErrors = append(result.RowErrors, fmt.Sprintf("row %d: duplicate of existing expense", rowNum))
		default:
			if !known[strings.ToLower(expense.Category)] {
				known[strings.ToLower(expense.Category)] = true
				result.NewCategories = append(result.NewCategories, model.Category{
					ID:    opts.NewID(),
					Name:  expense.Category,
					Color: model.AutoColor(len(categories) + len(result.NewCategories)),
				})
			}
			result.Expenses = append(result.Expenses, *expense)
			result.Imported++
		}

		if opts.OnRow != nil {
			opts.OnRow(rowNum, total)
		}
	}

	return result, nil
}

// parseHeader maps column names to indices, tolerating any ordering.
// Unrecognized columns are surfaced as warnings but otherwise ignored.
func parseHeader(header []string, result *Result) (map[string]int, error) {
	recognized := make(map[string]bool, len(Header))
	for _, name := range Header {
		recognized[name] = true
	}

	columns := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if !recognized[name] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("ignoring unrecognized column %q", raw))
			continue
		}
		columns[name] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumns, strings.Join(missing, ", "))
	}
	return columns, nil
}

// parseRow builds one expense from a data row, returning a non-empty
// error message when the row must be skipped.
func parseRow(rec []string, columns map[string]int, now time.Time, newID func() string) (*model.Expense, string) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	rawDate := field("date")
	rawAmount := field("amount")
	rawCategory := field("category")
	if rawDate == "" || rawAmount == "" || rawCategory == "" {
		return nil, "missing required field"
	}

	paidAt, err := model.ParseDate(rawDate)
	if err != nil {
		return nil, fmt.Sprintf("unparseable date %q", rawDate)
	}

	// Parsed raw, not sanitized: the sanitizer would strip a minus sign
	// and turn a negative amount into a positive one.
	cents, err := money.ParseAmountToCents(rawAmount)
	if err != nil {
		return nil, fmt.Sprintf("unparseable amount %q", rawAmount)
	}
	if cents > model.MaxAmountCents {
		return nil, fmt.Sprintf("amount %q exceeds maximum", rawAmount)
	}

	category := sanitize.CategoryName(rawCategory)
	if category == "" {
		return nil, fmt.Sprintf("category %q is empty after sanitization", rawCategory)
	}

	return &model.Expense{
		ID:            newID(),
		AmountCents:   cents,
		Currency:      model.BaseCurrency,
		Category:      category,
		Note:          sanitize.Text(field("note"), model.MaxNoteLen),
		PaymentMethod: sanitize.Text(field("payment_method"), model.MaxPaymentMethodLen),
		PaidAt:        paidAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, ""
}
