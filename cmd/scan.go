package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/CosmoTheDev/scamshield/internal/controller"
	"github.com/CosmoTheDev/scamshield/models"
	"github.com/spf13/cobra"
)

var scanOutputFmt string

var scanCmd = &cobra.Command{
	Use:   "scan <value>",
	Short: "Check a phone number, UPI ID, URL or message for scam risk",
	Long: `Looks the value up in the community report database and prints its risk
score, risk level, the reasons behind it and what to do next.

When the service cannot be reached an offline result is printed instead.

Examples:
  scamshield scan +919876543210
  scamshield scan refund.desk@ybl --output json
  scamshield scan "Your KYC is pending, click here to update"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutputFmt, "output", "o", "table", "Output format: table|json|yaml")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := validateOutput(scanOutputFmt); err != nil {
		return err
	}
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("nothing to scan: the value is empty")
	}

	_, client, err := loadClient()
	if err != nil {
		return err
	}

	slog.Debug("Starting scan", "query", query, "backend", client.BaseURL())

	scans := controller.NewScanController(client, controller.Hooks{})
	scans.Submit(ctx, query)
	scans.Wait()

	st := scans.State()
	if st.Result == nil {
		return fmt.Errorf("scan of %q produced no result", query)
	}
	return printScanResult(cmd.OutOrStdout(), *st.Result, scanOutputFmt)
}

func printScanResult(w io.Writer, r models.ScanResult, format string) error {
	if format != "table" {
		return writeStructured(w, format, r)
	}

	if r.Fallback {
		fmt.Fprintln(w, warnStyle.Bold(true).Render("OFFLINE")+"  "+r.QueriedValue)
	} else {
		fmt.Fprintln(w, levelStyle(r.Level).Render(strings.ToUpper(string(r.Level)))+"  "+r.QueriedValue)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Risk score:  %d/100\n", r.RiskScore)
	fmt.Fprintf(w, "Reports:     %d\n", r.ReportCount)
	fmt.Fprintf(w, "Confidence:  %d%%\n", r.ConfidenceScore)
	fmt.Fprintf(w, "Status:      %s\n", r.Status())

	if len(r.Reasons) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Why:")
		for _, reason := range r.Reasons {
			fmt.Fprintf(w, "  • %s\n", reason)
		}
	}
	if r.ActionAdvice != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, levelStyle(r.Level).Render(r.ActionAdvice))
	}
	if len(r.Reports) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Community reports:")
		printReports(w, r.Reports)
	}
	if r.ScanID != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, dimStyle.Render("scan "+r.ScanID))
	}
	return nil
}
