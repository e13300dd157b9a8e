package annotate

import (
	"fmt"

	"github.com/at-ishikawa/langtable/internal/htmltext"
	"github.com/at-ishikawa/langtable/internal/table"
)

// ExtractText fills the text column with the plain text of the description column.
// There is no retry, the first parser error is returned.
func (a *Annotator) ExtractText(t *table.Table) error {
	return ExtractText(t, a.columns.Description, a.columns.Text)
}

func ExtractText(t *table.Table, descriptionColumn, textColumn string) error {
	if !t.Has(descriptionColumn) {
		return fmt.Errorf("column %q not found", descriptionColumn)
	}
	for row := 0; row < t.Len(); row++ {
		text, err := htmltext.Extract(t.Get(row, descriptionColumn))
		if err != nil {
			return fmt.Errorf("row %d > htmltext.Extract > %w", row, err)
		}
		t.Set(row, textColumn, text)
	}
	return nil
}
