package csvio

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var csvNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	seq := 0
	return Options{
		Now: func() time.Time { return csvNow },
		NewID: func() string {
			seq++
			return fmt.Sprintf("imp-%03d", seq)
		},
	}
}

func storedExpense(cents int64, category, note string, day int) model.Expense {
	return model.Expense{
		ID:          fmt.Sprintf("e-%d", day),
		AmountCents: cents,
		Currency:    "USD",
		Category:    category,
		Note:        note,
		PaidAt:      model.NewDate(2024, 3, day),
		CreatedAt:   csvNow,
		UpdatedAt:   csvNow,
	}
}

func TestExport(t *testing.T) {
	expenses := []model.Expense{
		storedExpense(1599, "Food", "lunch", 15),
		storedExpense(250, "Transport", "", 16),
	}

	out, err := Export(expenses)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "\uFEFF"), "export carries a byte-order marker")

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(text, "\uFEFF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,amount,currency,category,note,payment_method", lines[0])
	assert.Equal(t, "2024-03-15,15.99,USD,Food,lunch,", lines[1])
	assert.Equal(t, "2024-03-16,2.50,USD,Transport,,", lines[2])
}

func TestExport_EmptyCollectionIsAnError(t *testing.T) {
	_, err := Export(nil)
	require.ErrorIs(t, err, common.ErrEmptyExport)
}

func TestImport_MinimalHeader(t *testing.T) {
	csv := "date,amount,category\n2024-01-05,12.50,Travel\n"

	result, err := Import([]byte(csv), nil, nil, testOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.RowErrors)

	require.Len(t, result.Expenses, 1)
	e := result.Expenses[0]
	assert.Equal(t, int64(1250), e.AmountCents)
	assert.Equal(t, "Travel", e.Category)
	assert.Equal(t, "2024-01-05", e.PaidAt.String())
	assert.Equal(t, model.BaseCurrency, e.Currency)
	assert.NotEmpty(t, e.ID)

	require.Len(t, result.NewCategories, 1, "unknown category is auto-created")
	assert.Equal(t, "Travel", result.NewCategories[0].Name)
	assert.NotEmpty(t, result.NewCategories[0].Color)
}

func TestImport_MissingRequiredColumnFailsWholeBatch(t *testing.T) {
	csv := "date,note\n2024-01-05,whatever\n"

	_, err := Import([]byte(csv), nil, nil, testOptions())
	require.ErrorIs(t, err, common.ErrMissingColumns)
	assert.Contains(t, err.Error(), "amount")
	assert.Contains(t, err.Error(), "category")
}

func TestImport_UnknownColumnsWarnButImport(t *testing.T) {
	csv := "date,amount,category,wallet\n2024-01-05,3.00,Food,main\n"

	result, err := Import([]byte(csv), nil, nil, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "wallet")
}

func TestImport_ColumnOrderingIsFree(t *testing.T) {
	csv := "category,amount,date\nFood,4.20,2024-02-29\n"

	result, err := Import([]byte(csv), nil, nil, testOptions())
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)
	assert.Equal(t, int64(420), result.Expenses[0].AmountCents)
	assert.Equal(t, "2024-02-29", result.Expenses[0].PaidAt.String())
}

func TestImport_BadRowsAreSkippedNotFatal(t *testing.T) {
	csv := strings.Join([]string{
		"date,amount,category",
		"2024-01-05,12.50,Travel",  // good
		",12.50,Travel",            // missing date
		"not-a-date,12.50,Travel",  // bad date
		"2024-01-06,zero,Travel",   // bad amount
		"2024-01-07,-3.00,Travel",  // negative amount
		"2024-01-08,5.00,",         // missing category
		"2024-01-09,6.00,Food",     // good
	}, "\n")

	result, err := Import([]byte(csv), nil, nil, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 5, result.Skipped)
	require.Len(t, result.RowErrors, 5)
	assert.True(t, strings.HasPrefix(result.RowErrors[0], "row 2:"), "row errors are 1-indexed over data rows")
	assert.True(t, strings.HasPrefix(result.RowErrors[4], "row 6:"))
}

func TestImport_DuplicateDetection(t *testing.T) {
	existing := []model.Expense{storedExpense(1250, "Travel", "flight", 5)}
	csv := "date,amount,category,note\n2024-03-05,12.50,Travel,flight\n2024-03-05,12.50,Travel,hotel\n"

	result, err := Import([]byte(csv), existing, nil, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported, "note mismatch is not a duplicate")
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.RowErrors, 1)
	assert.Contains(t, result.RowErrors[0], "duplicate")

	// Caller may explicitly allow duplicates.
	opts := testOptions()
	opts.AllowDuplicates = true
	result, err = Import([]byte(csv), existing, nil, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
}

func TestImport_CategoryBackfillIsCaseInsensitive(t *testing.T) {
	categories := []model.Category{{ID: "c1", Name: "Travel", Color: "#FF6B6B"}}
	csv := "date,amount,category\n2024-03-05,1.00,travel\n2024-03-06,2.00,Groceries\n"

	result, err := Import([]byte(csv), nil, categories, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.NewCategories, 1, "existing category matched case-insensitively")
	assert.Equal(t, "Groceries", result.NewCategories[0].Name)
}

func TestImport_BOMIsTolerated(t *testing.T) {
	csv := "\uFEFFdate,amount,category\n2024-03-05,1.00,Food\n"

	result, err := Import([]byte(csv), nil, nil, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestExportImport_RoundTrip(t *testing.T) {
	expenses := []model.Expense{
		storedExpense(1599, "Food", "lunch with tax", 15),
		storedExpense(250, "Transport", "", 16),
		storedExpense(100_000, "Bills", "rent share", 17),
	}
	categories := []model.Category{
		{ID: "c1", Name: "Food", Color: "#FF6B6B"},
		{ID: "c2", Name: "Transport", Color: "#4ECDC4"},
		{ID: "c3", Name: "Bills", Color: "#FFE66D"},
	}

	out, err := Export(expenses)
	require.NoError(t, err)

	result, err := Import(out, expenses, categories, testOptions())
	require.NoError(t, err)
	assert.Zero(t, result.Imported, "every exported row matches as a duplicate")
	assert.Equal(t, len(expenses), result.Skipped)
	assert.Empty(t, result.NewCategories)
	assert.Empty(t, result.Warnings)
}
