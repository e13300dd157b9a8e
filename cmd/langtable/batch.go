package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/at-ishikawa/langtable/internal/annotate"
	"github.com/at-ishikawa/langtable/internal/config"
	"github.com/at-ishikawa/langtable/internal/table"
	"github.com/spf13/cobra"
)

type batchOptions struct {
	input    string
	output   string
	report   string
	provider Provider
}

func (opts *batchOptions) register(cmd *cobra.Command, withProvider bool) {
	flags := cmd.Flags()
	flags.StringVar(&opts.input, "input", "", "CSV file to read, its first column is the row index")
	flags.StringVar(&opts.output, "output", "", "CSV file to write as UTF-8")
	flags.StringVar(&opts.report, "report", "", "YAML file to write the run report to")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	if withProvider {
		opts.provider = ProviderGoogle
		flags.Var(&opts.provider, "provider", fmt.Sprintf("Translation API. Possible values are %v", allProviders))
	}
}

// step runs one operation over the whole table
type step func(ctx context.Context, s *session, t *table.Table) (annotate.Summary, error)

// run executes the steps in order and stops at the first failure.
// The table is saved whatever the outcome, so an aborted batch can be resumed.
func (opts *batchOptions) run(cmd *cobra.Command, steps ...step) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	t, err := loadTable(cfg, opts.input)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &session{cfg: cfg, provider: opts.provider}
	defer s.close()

	reports := make([]Report, 0, len(steps))
	var runErr error
	for _, process := range steps {
		summary, err := process(ctx, s, t)
		reports = append(reports, newReport(summary, opts.input, opts.output, err))
		if err != nil {
			runErr = fmt.Errorf("%s > %w", summary.Operation, err)
			break
		}
	}

	if err := s.save(t, opts.output); err != nil {
		return errors.Join(runErr, err)
	}
	slog.Default().Info("Saved the table", "output", opts.output, "rows", t.Len())

	if opts.report != "" {
		if err := writeReports(opts.report, reports); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadTable(cfg *config.Config, path string) (*table.Table, error) {
	encoding, err := table.ParseEncoding(cfg.Table.InputEncoding)
	if err != nil {
		return nil, fmt.Errorf("table.ParseEncoding > %w", err)
	}
	t, err := table.ReadFile(path, table.WithEncoding(encoding))
	if err != nil {
		return nil, fmt.Errorf("table.ReadFile > %w", err)
	}
	return t, nil
}

// session builds the annotator on first use, so that commands which
// never call the API do not need credentials
type session struct {
	cfg       *config.Config
	provider  Provider
	annotator *annotate.Annotator
}

func (s *session) Annotator(ctx context.Context) (*annotate.Annotator, error) {
	if s.annotator != nil {
		return s.annotator, nil
	}

	factory, err := newFactory(s.cfg, s.provider)
	if err != nil {
		return nil, err
	}
	annotator, err := annotate.New(ctx, factory,
		annotate.WithColumns(s.cfg.Columns()),
		annotate.WithDetectPolicy(s.cfg.DetectPolicy(), s.cfg.Detect.Throttle),
		annotate.WithTranslatePolicy(s.cfg.TranslatePolicy(), s.cfg.Translation.Throttle),
		annotate.WithTargetLanguage(s.cfg.Translate.TargetLanguage),
		annotate.WithVerbose(s.cfg.Verbose, os.Stdout),
	)
	if err != nil {
		return nil, fmt.Errorf("annotate.New > %w", err)
	}
	s.annotator = annotator
	return annotator, nil
}

func (s *session) save(t *table.Table, path string) error {
	if s.annotator != nil {
		return s.annotator.Save(t, path)
	}
	if err := t.WriteFile(path); err != nil {
		return fmt.Errorf("table.WriteFile > %w", err)
	}
	return nil
}

func (s *session) close() {
	if s.annotator == nil {
		return
	}
	if err := s.annotator.Close(); err != nil {
		slog.Default().Debug("Failed to close the client", "error", err)
	}
}

const extractOperation = "Text extraction"

func extractStep(_ context.Context, s *session, t *table.Table) (annotate.Summary, error) {
	columns := s.cfg.Columns()
	summary := annotate.Summary{
		Operation: extractOperation,
		Rows:      t.Len(),
		Started:   time.Now(),
	}
	err := annotate.ExtractText(t, columns.Description, columns.Text)
	if err == nil {
		summary.Processed = t.Len()
	}
	summary.Finished = time.Now()
	return summary, err
}

// extractMissingStep extracts the text only when the table has no text column yet
func extractMissingStep(ctx context.Context, s *session, t *table.Table) (annotate.Summary, error) {
	if t.Has(s.cfg.Columns().Text) {
		now := time.Now()
		return annotate.Summary{
			Operation: extractOperation,
			Rows:      t.Len(),
			Skipped:   t.Len(),
			Started:   now,
			Finished:  now,
		}, nil
	}
	return extractStep(ctx, s, t)
}

func detectStep(ctx context.Context, s *session, t *table.Table) (annotate.Summary, error) {
	annotator, err := s.Annotator(ctx)
	if err != nil {
		return annotate.Summary{Operation: "Language detection", Rows: t.Len()}, err
	}
	return annotator.DetectLanguage(ctx, t)
}

func translateStep(ctx context.Context, s *session, t *table.Table) (annotate.Summary, error) {
	annotator, err := s.Annotator(ctx)
	if err != nil {
		return annotate.Summary{Operation: "Translation", Rows: t.Len()}, err
	}
	return annotator.TranslateText(ctx, t)
}
