package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/acheong08/guardian-angel/internal/diff"
	"github.com/acheong08/guardian-angel/internal/render"
	"github.com/acheong08/guardian-angel/internal/tui"
	"github.com/acheong08/guardian-angel/pkg/models"
)

var (
	flagInteractive bool
	flagWrite       bool
)

// runTUI opens the terminal review; tests replace it
var runTUI = tui.Run

var fixCmd = &cobra.Command{
	Use:   "fix [file|-]",
	Short: "Analyze a snippet and propose a secure fix",
	Long: "Fix runs the analyzer and then the refactoring agent, printing the report, " +
		"the fixed code and a unified diff. Files are only modified with --write.",
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().StringVar(&flagFormat, "format", FormatText, "Output format (text, json, raw)")
	fixCmd.Flags().StringVar(&flagFailOn, "fail-on", "none", "Exit 1 when a finding is at or above this severity (none, low, medium, high)")
	fixCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Review the fix in a terminal UI and accept or reject it")
	fixCmd.Flags().BoolVarP(&flagWrite, "write", "w", false, "Overwrite the input file with an accepted fix")
}

func runFix(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	threshold, err := parseFailOn(flagFailOn)
	if err != nil {
		return err
	}
	code, path, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if flagWrite && path == "" {
		return fmt.Errorf("--write needs a file argument")
	}

	svc, _, logger, ok := setup(cmd)
	if !ok {
		return nil
	}
	defer logger.Sync()

	review, err := svc.Review(cmd.Context(), code)
	if err != nil {
		fail(cmd, fmt.Errorf("review failed: %w", err))
		return nil
	}

	out := cmd.OutOrStdout()
	accepted := flagWrite
	if flagInteractive {
		var opts []tea.ProgramOption
		if path == "" {
			// stdin carried the snippet, so keys must come from the terminal
			opts = append(opts, tea.WithInputTTY())
		}
		decision, err := runTUI(review, opts...)
		if err != nil {
			fail(cmd, err)
			return nil
		}
		accepted = decision == tui.DecisionAccepted
		logger.Debugw("review decision", "decision", decision.String())
	} else {
		if err := printReview(out, format, review); err != nil {
			fail(cmd, fmt.Errorf("writing output: %w", err))
			return nil
		}
	}

	if flagInteractive {
		switch {
		case !accepted:
			fmt.Fprintln(out, "Fix rejected. The input was left unchanged.")
		case !flagWrite:
			fmt.Fprintln(out, "Fix accepted. Re-run with --write to update the file.")
		}
	}
	if accepted && flagWrite {
		if review.FixedCode == code {
			fmt.Fprintf(out, "%s is unchanged\n", path)
		} else if err := writeFix(path, review.FixedCode); err != nil {
			fail(cmd, fmt.Errorf("writing %s: %w", path, err))
			return nil
		} else {
			fmt.Fprintf(out, "Fix written to %s\n", path)
		}
	}

	if meetsThreshold(review.Report, threshold) {
		exitCode = ExitFindings
	}
	return nil
}

func printReview(w io.Writer, format string, review *models.Review) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, review)
	case FormatRaw:
		_, err := fmt.Fprintln(w, review.FixedCode)
		return err
	}

	added, removed := diff.Stats(review.Code, review.FixedCode)
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n%s",
		render.Terminal(review.Report),
		render.Code("Fixed Code", review.FixedCode),
		fmt.Sprintf("%d line(s) added, %d removed", added, removed),
		render.Diff(review.Diff),
	)
	return err
}
