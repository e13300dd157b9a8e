package annotate

import (
	"context"
	"fmt"
	"strconv"

	"github.com/at-ishikawa/langtable/internal/table"
	"github.com/at-ishikawa/langtable/internal/translate"
)

const probeLength = 100

// DetectLanguage detects the language of the beginning and the end of each row's text.
// Rows with a primary language are skipped, so a stopped batch can be resumed.
func (a *Annotator) DetectLanguage(ctx context.Context, t *table.Table) (Summary, error) {
	if !t.Has(a.columns.Text) {
		return Summary{Operation: "Language detection", Rows: t.Len()}, fmt.Errorf("column %q not found, extract the text first", a.columns.Text)
	}

	columns := a.columns
	return a.run(ctx, t, operation{
		name:     "Language detection",
		policy:   a.detectPolicy,
		throttle: a.detectThrottle,
		progress: "Number of detected texts so far: %d\n",
		skip: func(t *table.Table, row int) bool {
			return t.Get(row, columns.PrimaryLanguage) != ""
		},
		annotate: func(ctx context.Context, client translate.Client, t *table.Table, row int) error {
			head, tail := probe(textOf(t, row, columns.Text))
			detections, err := client.Detect(ctx, []string{head, tail})
			if err != nil {
				return fmt.Errorf("client.Detect > %w", err)
			}
			if len(detections) != 2 {
				return translate.Malformed("response contains %d parts", len(detections))
			}

			t.Set(row, columns.PrimaryLanguage, detections[0].Language)
			t.Set(row, columns.PrimaryConfidence, formatConfidence(detections[0].Confidence))
			t.Set(row, columns.SecondaryLanguage, detections[1].Language)
			t.Set(row, columns.SecondaryConfidence, formatConfidence(detections[1].Confidence))
			return nil
		},
	})
}

// textOf returns the text of a row, or a single space when it is empty
func textOf(t *table.Table, row int, column string) string {
	text := t.Get(row, column)
	if text == "" {
		return " "
	}
	return text
}

// probe returns the first and the last probeLength characters of text
func probe(text string) (string, string) {
	runes := []rune(text)
	head := runes
	if len(head) > probeLength {
		head = head[:probeLength]
	}
	tail := runes
	if len(tail) > probeLength {
		tail = tail[len(tail)-probeLength:]
	}
	return string(head), string(tail)
}

func formatConfidence(confidence float64) string {
	return strconv.FormatFloat(confidence, 'f', -1, 64)
}
