// Package csvio converts between the record store's expense collection
// and the delimited-text interchange format.
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/money"
)

// Header is the exact export column set. Import requires only date,
// amount and category, in any order.
var Header = []string{"date", "amount", "currency", "category", "note", "payment_method"}

// bom keeps common spreadsheet tools from misreading the file encoding.
const bom = "\uFEFF"

// Export serializes the full expense collection. An empty collection is a
// user-facing error, not a silent empty file.
func Export(expenses []model.Expense) ([]byte, error) {
	if len(expenses) == 0 {
		return nil, common.ErrEmptyExport
	}

	var buf bytes.Buffer
	buf.WriteString(bom)

	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i := range expenses {
		e := &expenses[i]
		row := []string{
			e.PaidAt.String(),
			money.FormatDecimal(e.AmountCents),
			e.Currency,
			e.Category,
			e.Note,
			e.PaymentMethod,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.Bytes(), nil
}
