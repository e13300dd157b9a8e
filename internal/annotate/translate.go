package annotate

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/langtable/internal/table"
	"github.com/at-ishikawa/langtable/internal/translate"
)

// TranslateText translates every row's text into the target language.
// Unlike DetectLanguage it does not skip rows translated by an earlier run.
func (a *Annotator) TranslateText(ctx context.Context, t *table.Table) (Summary, error) {
	if !t.Has(a.columns.Text) {
		return Summary{Operation: "Translation", Rows: t.Len()}, fmt.Errorf("column %q not found, extract the text first", a.columns.Text)
	}

	columns := a.columns
	target := a.targetLanguage
	return a.run(ctx, t, operation{
		name:     "Translation",
		policy:   a.translatePolicy,
		throttle: a.translateThrottle,
		progress: "Number of translated texts so far: %d\n",
		annotate: func(ctx context.Context, client translate.Client, t *table.Table, row int) error {
			translation, err := client.Translate(ctx, textOf(t, row, columns.Text), target)
			if err != nil {
				return fmt.Errorf("client.Translate > %w", err)
			}

			t.Set(row, columns.Translated, translation.Text)
			t.Set(row, columns.SourceLanguage, translation.SourceLanguage)
			return nil
		},
	})
}
