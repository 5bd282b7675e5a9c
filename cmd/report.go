package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agentgrowth/leadflow/internal/analysis"
	"github.com/agentgrowth/leadflow/internal/intake"
	"github.com/agentgrowth/leadflow/internal/report"
)

type previewOptions struct {
	In  string `validate:"required,file"`
	Out string `validate:"required,nefield=In"`
}

var previewOpts previewOptions

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Work with success-analysis reports",
}

var reportPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a report from a lead JSON file without storing or sending it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("preview"); err != nil {
			return err
		}
		renderer, err := initRenderer()
		if err != nil {
			return err
		}

		doc, res, err := renderPreview(renderer, previewOpts)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "wrote %s (%d pages", previewOpts.Out, doc.Pages)
		if doc.Fallback {
			fmt.Fprint(w, ", fallback")
		}
		fmt.Fprintln(w, ")")
		fmt.Fprintf(w, "current earnings: %s\n", analysis.Currency(res.CurrentEarnings))
		fmt.Fprintf(w, "earnings gap:     %s\n", analysis.Currency(res.EarningsGap))
		return nil
	},
}

// renderPreview validates opts, renders the submission in opts.In and writes
// the PDF to opts.Out.
func renderPreview(renderer *report.Renderer, opts previewOptions) (report.Document, analysis.Result, error) {
	if err := validator.New().Struct(opts); err != nil {
		return report.Document{}, analysis.Result{}, eris.Wrap(err, "preview: invalid flags")
	}

	data, err := os.ReadFile(opts.In)
	if err != nil {
		return report.Document{}, analysis.Result{}, eris.Wrap(err, "preview: read input")
	}
	var sub intake.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return report.Document{}, analysis.Result{}, eris.Wrap(err, "preview: parse input")
	}

	checked, err := intake.Validate(sub)
	if err != nil {
		return report.Document{}, analysis.Result{}, err
	}
	if checked.Bot {
		return report.Document{}, analysis.Result{}, eris.New("preview: input has the honeypot field set")
	}

	lead := checked.Lead
	res := analysis.Analyze(lead)
	doc, err := renderer.Render(lead, res)
	if err != nil {
		return report.Document{}, analysis.Result{}, err
	}
	if err := os.WriteFile(opts.Out, doc.Bytes, 0o644); err != nil {
		return report.Document{}, analysis.Result{}, eris.Wrap(err, "preview: write output")
	}
	return doc, res, nil
}

func init() {
	reportPreviewCmd.Flags().StringVar(&previewOpts.In, "in", "", "lead submission JSON file")
	reportPreviewCmd.Flags().StringVar(&previewOpts.Out, "out", "preview.pdf", "output PDF path")

	reportCmd.AddCommand(reportPreviewCmd)
	rootCmd.AddCommand(reportCmd)
}
