package main

import (
	"fmt"
	"os"
	"time"

	"github.com/at-ishikawa/langtable/internal/annotate"
	"gopkg.in/yaml.v3"
)

// Report is written after a batch, also when the batch was aborted
type Report struct {
	Operation string    `yaml:"operation"`
	Input     string    `yaml:"input"`
	Output    string    `yaml:"output"`
	Rows      int       `yaml:"rows"`
	Processed int       `yaml:"processed"`
	Skipped   int       `yaml:"skipped"`
	Aborted   bool      `yaml:"aborted"`
	Error     string    `yaml:"error,omitempty"`
	Started   time.Time `yaml:"started"`
	Finished  time.Time `yaml:"finished"`
}

func newReport(summary annotate.Summary, input, output string, err error) Report {
	report := Report{
		Operation: summary.Operation,
		Input:     input,
		Output:    output,
		Rows:      summary.Rows,
		Processed: summary.Processed,
		Skipped:   summary.Skipped,
		Started:   summary.Started,
		Finished:  summary.Finished,
	}
	if err != nil {
		report.Aborted = true
		report.Error = err.Error()
	}
	return report
}

func writeReports(path string, reports []Report) error {
	data, err := yaml.Marshal(reports)
	if err != nil {
		return fmt.Errorf("yaml.Marshal > %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}
