package main

import (
	"github.com/spf13/cobra"
)

func newExtractCommand() *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the plain text of the HTML description column",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, extractStep)
		},
	}
	opts.register(cmd, false)
	return cmd
}

func newDetectCommand() *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect the language of the beginning and the end of each text",
		Long: `Detect the language of the beginning and the end of each text.
Rows which already have a detected language are skipped, so an aborted run can be resumed
by passing its output as the input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, detectStep)
		},
	}
	opts.register(cmd, true)
	return cmd
}

func newTranslateCommand() *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate each text into the target language",
		Long: `Translate each text into the target language.
Every row is translated again, including rows translated by an earlier run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, translateStep)
		},
	}
	opts.register(cmd, true)
	return cmd
}

func newRunCommand() *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Extract the text when it is missing, then detect its language",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, extractMissingStep, detectStep)
		},
	}
	opts.register(cmd, true)
	return cmd
}
