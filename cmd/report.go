package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CosmoTheDev/scamshield/internal/controller"
	"github.com/CosmoTheDev/scamshield/models"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const autoType = "auto"

var (
	reportValue       string
	reportType        string
	reportDescription string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report a scammer to the community database",
	Long: `Submits a scam report. Any field not given as a flag is asked for
interactively.

The type is detected from the value unless --type is set.

Examples:
  scamshield report
  scamshield report --value +919876543210 --description "Fake bank KYC call"
  scamshield report --value refund.desk@ybl --type upi --description "Collect request for a refund"`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportValue, "value", "", "Phone number, UPI ID, URL or message text")
	reportCmd.Flags().StringVar(&reportType, "type", autoType, "Report type: auto|phone|upi|url|message_text")
	reportCmd.Flags().StringVar(&reportDescription, "description", "", "What happened")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, client, err := loadClient()
	if err != nil {
		return err
	}

	typ := strings.ToLower(strings.TrimSpace(reportType))
	draft := models.ReportDraft{Value: reportValue, Description: reportDescription}
	if strings.TrimSpace(draft.Value) == "" || strings.TrimSpace(draft.Description) == "" {
		if err := collectDraft(&draft, &typ); err != nil {
			return err
		}
	}
	if draft.Type, err = resolveType(typ, draft.Value); err != nil {
		return err
	}

	reports := controller.NewReportSubmitController(client, controller.Hooks{})
	if err := reports.SetDraft(draft); err != nil {
		return err
	}
	if err := reports.Submit(ctx); err != nil {
		return err
	}
	reports.Wait()

	out := cmd.OutOrStdout()
	st := reports.State()
	if st.Status != controller.StatusSuccess {
		fmt.Fprintln(out, failStyle.Render("Failed to submit. Please try again."))
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  scamshield report --value %q --type %s --description %q",
			st.Draft.Value, st.Draft.Type, st.Draft.Description)))
		return errors.New("report submission failed")
	}
	fmt.Fprintln(out, successStyle.Render("Report submitted. Thank you for helping protect others."))
	return nil
}

// resolveType maps the --type flag to a category, detecting it from value
// for "auto".
func resolveType(typ, value string) (models.Category, error) {
	if typ == "" || typ == autoType {
		return models.DetectCategory(value), nil
	}
	return models.ParseCategory(typ)
}

func collectDraft(draft *models.ReportDraft, typ *string) error {
	required := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}

	options := []huh.Option[string]{huh.NewOption("Detect from value", autoType)}
	for _, c := range models.Categories {
		options = append(options, huh.NewOption(c.Label(), string(c)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Scammer details").
				Description("Phone number, UPI ID, website URL or the message you received").
				Value(&draft.Value).
				Validate(required("scammer details")),
			huh.NewSelect[string]().
				Title("Type").
				Options(options...).
				Value(typ),
			huh.NewText().
				Title("Description").
				Placeholder("What happened?").
				Value(&draft.Description).
				Validate(required("description")),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("reading report: %w", err)
	}
	return nil
}
