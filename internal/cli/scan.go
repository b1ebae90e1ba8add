package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acheong08/guardian-angel/internal/analysis"
	"github.com/acheong08/guardian-angel/internal/render"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file|-]",
	Short: "Analyze a snippet for vulnerabilities",
	Long:  "Scan sends the snippet (a file, or stdin when omitted or \"-\") to the analyzer and prints its report.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&flagFormat, "format", FormatText, "Output format (text, json, raw)")
	scanCmd.Flags().StringVar(&flagFailOn, "fail-on", "none", "Exit 1 when a finding is at or above this severity (none, low, medium, high)")
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	threshold, err := parseFailOn(flagFailOn)
	if err != nil {
		return err
	}
	code, _, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	svc, _, logger, ok := setup(cmd)
	if !ok {
		return nil
	}
	defer logger.Sync()

	text, err := svc.AnalyzeCode(cmd.Context(), code)
	if err != nil {
		fail(cmd, fmt.Errorf("analysis failed: %w", err))
		return nil
	}
	report := analysis.ParseReport(text)

	out := cmd.OutOrStdout()
	switch format {
	case FormatJSON:
		if err := writeJSON(out, report); err != nil {
			fail(cmd, fmt.Errorf("writing output: %w", err))
			return nil
		}
	case FormatRaw:
		fmt.Fprintln(out, text)
	default:
		fmt.Fprint(out, render.Terminal(report))
	}

	if meetsThreshold(report, threshold) {
		exitCode = ExitFindings
	}
	return nil
}
