package translate

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/translate/mock_client.go -package=mock_translate

// Client interface defines the language operations of a translation API
type Client interface {
	// Detect returns one detection per input text, in the same order
	Detect(ctx context.Context, texts []string) ([]Detection, error)
	// Translate translates text into the target language
	Translate(ctx context.Context, text string, target string) (Translation, error)
	Close() error
}

// Factory builds a new Client. It is called once at start and again whenever
// a caller decides the current client is no longer usable.
type Factory func(ctx context.Context) (Client, error)

// Detection is the most likely language of a text
type Detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Translation is a translated text with the language detected in the input
type Translation struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
}
