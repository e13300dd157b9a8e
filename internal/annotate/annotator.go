package annotate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/at-ishikawa/langtable/internal/table"
	"github.com/at-ishikawa/langtable/internal/translate"
	"github.com/avast/retry-go"
	"github.com/fatih/color"
)

// ErrRetryLimitExceeded is returned when a row failed on every attempt of its policy.
// The batch stops at that row.
var ErrRetryLimitExceeded = errors.New("retry limit exceeded")

const (
	DefaultDetectThrottle    = 50 * time.Millisecond
	DefaultTranslateThrottle = 3 * time.Second
	DefaultTargetLanguage    = "en"

	progressInterval = 100
)

type Annotator struct {
	factory translate.Factory
	client  translate.Client

	columns           Columns
	detectPolicy      Policy
	translatePolicy   Policy
	detectThrottle    time.Duration
	translateThrottle time.Duration
	targetLanguage    string
	verbose           bool
	output            io.Writer
}

type Option func(*Annotator)

func WithColumns(columns Columns) Option {
	return func(a *Annotator) {
		a.columns = columns
	}
}

func WithDetectPolicy(policy Policy, throttle time.Duration) Option {
	return func(a *Annotator) {
		a.detectPolicy = policy
		a.detectThrottle = throttle
	}
}

func WithTranslatePolicy(policy Policy, throttle time.Duration) Option {
	return func(a *Annotator) {
		a.translatePolicy = policy
		a.translateThrottle = throttle
	}
}

func WithTargetLanguage(language string) Option {
	return func(a *Annotator) {
		a.targetLanguage = language
	}
}

// WithVerbose prints progress messages to output
func WithVerbose(verbose bool, output io.Writer) Option {
	return func(a *Annotator) {
		a.verbose = verbose
		a.output = output
	}
}

// New builds the first client with factory. The factory is kept to rebuild
// the client when a row keeps failing.
func New(ctx context.Context, factory translate.Factory, opts ...Option) (*Annotator, error) {
	a := &Annotator{
		factory:           factory,
		columns:           DefaultColumns(),
		detectPolicy:      DetectPolicy(),
		translatePolicy:   TranslatePolicy(),
		detectThrottle:    DefaultDetectThrottle,
		translateThrottle: DefaultTranslateThrottle,
		targetLanguage:    DefaultTargetLanguage,
		verbose:           true,
		output:            os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.detectPolicy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detect policy: %w", err)
	}
	if err := a.translatePolicy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid translate policy: %w", err)
	}

	client, err := factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("factory > %w", err)
	}
	a.client = client
	return a, nil
}

func (a *Annotator) Close() error {
	return a.client.Close()
}

// Save writes the whole table to destination as UTF-8
func (a *Annotator) Save(t *table.Table, destination string) error {
	if err := t.WriteFile(destination); err != nil {
		return fmt.Errorf("table.WriteFile > %w", err)
	}
	return nil
}

// Summary describes one batch run. It is returned also when the batch aborts.
type Summary struct {
	Operation string    `yaml:"operation"`
	Rows      int       `yaml:"rows"`
	Processed int       `yaml:"processed"`
	Skipped   int       `yaml:"skipped"`
	Started   time.Time `yaml:"started"`
	Finished  time.Time `yaml:"finished"`
}

// operation is one of the per-row loops sharing the retry policy
type operation struct {
	name     string
	policy   Policy
	throttle time.Duration
	progress string
	// skip reports rows that are already done
	skip func(t *table.Table, row int) bool
	// annotate calls the API for a row and writes the result into the table
	annotate func(ctx context.Context, client translate.Client, t *table.Table, row int) error
}

func (a *Annotator) run(ctx context.Context, t *table.Table, op operation) (Summary, error) {
	summary := Summary{
		Operation: op.name,
		Rows:      t.Len(),
		Started:   time.Now(),
	}
	slog.Default().Info("Started", "operation", op.name, "rows", t.Len())

	for row := 0; row < t.Len(); row++ {
		if op.skip != nil && op.skip(t, row) {
			summary.Skipped++
			continue
		}

		if err := a.annotateRow(ctx, t, row, op); err != nil {
			summary.Finished = time.Now()
			return summary, fmt.Errorf("row %d > %w", row, err)
		}
		summary.Processed++

		if row%progressInterval == progressInterval-1 {
			a.printf(color.FgCyan, op.progress, row+1)
		}
		if err := sleep(ctx, op.throttle); err != nil {
			summary.Finished = time.Now()
			return summary, err
		}
	}

	a.printf(color.FgGreen, "%s completed\n", op.name)
	slog.Default().Info("Finished", "operation", op.name, "processed", summary.Processed, "skipped", summary.Skipped)
	summary.Finished = time.Now()
	return summary, nil
}

func (a *Annotator) annotateRow(ctx context.Context, t *table.Table, row int, op operation) error {
	policy := op.policy
	var fatalErr error
	err := retry.Do(
		func() error {
			if err := op.annotate(ctx, a.client, t, row); err != nil {
				if !translate.IsTransient(err) {
					fatalErr = err
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(policy.MaxAttempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return policy.Delay(n + 1)
		}),
		retry.OnRetry(func(n uint, err error) {
			attempt := n + 1
			slog.Default().Warn("Exception occurred",
				"operation", op.name,
				"row", row,
				"attempt", attempt,
				"sleep", policy.Delay(attempt),
				"error", err)
			if attempt == policy.ReconnectAfter && attempt < policy.MaxAttempts {
				a.reconnect(ctx)
			}
		}),
	)
	if err == nil {
		return nil
	}
	if fatalErr != nil {
		return fatalErr
	}
	if translate.IsTransient(err) {
		slog.Default().Error("Limit exceeded",
			"operation", op.name,
			"row", row,
			"attempts", policy.MaxAttempts)
		return fmt.Errorf("%w after %d attempts: %w", ErrRetryLimitExceeded, policy.MaxAttempts, err)
	}
	return err
}

// reconnect replaces the client with a new one from the factory.
// When the factory fails the current client is kept.
func (a *Annotator) reconnect(ctx context.Context) {
	client, err := a.factory(ctx)
	if err != nil {
		slog.Default().Error("Failed to recreate the client, keeping the current one", "error", err)
		return
	}
	if err := a.client.Close(); err != nil {
		slog.Default().Debug("Failed to close the previous client", "error", err)
	}
	a.client = client
	slog.Default().Info("Recreated the client")
}

func (a *Annotator) printf(attribute color.Attribute, format string, args ...any) {
	if !a.verbose || a.output == nil {
		return
	}
	_, _ = color.New(attribute).Fprintf(a.output, format, args...)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
