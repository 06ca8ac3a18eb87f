package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joelkehle/drug-landscape/internal/landscape"
	"github.com/joelkehle/drug-landscape/internal/report"
)

var errNoDisease = errors.New("--disease is required")

type reportFlags struct {
	disease     string
	noSecondary bool
	format      string
	output      string
}

func newReportCmd(a *app) *cobra.Command {
	f := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the landscape for one disease",
		Example: `  landscape report --disease "Lupus"
  landscape report --disease "Lupus" --no-secondary --format pdf --output lupus.pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.report(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.disease, "disease", "", "disease label (matched case-insensitively, surrounding spaces ignored)")
	cmd.Flags().BoolVar(&f.noSecondary, "no-secondary", false, "exclude publication data")
	cmd.Flags().StringVar(&f.format, "format", "md", "output format: md, json, html or pdf")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func (a *app) report(cmd *cobra.Command, f *reportFlags) error {
	if strings.TrimSpace(f.disease) == "" {
		return errNoDisease
	}
	format := strings.ToLower(strings.TrimSpace(f.format))
	switch format {
	case "md", "json", "html", "pdf":
	default:
		return fmt.Errorf("unknown format %q (want md, json, html or pdf)", f.format)
	}

	ctx := cmd.Context()
	engine, err := a.engine(ctx)
	if err != nil {
		return err
	}
	res, err := engine.Refresh(ctx, f.disease, !f.noSecondary)
	if err != nil {
		return err
	}

	var body []byte
	if format == "json" {
		body, err = json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		body = append(body, '\n')
	} else {
		body, err = a.renderReport(cmd, res, format)
		if err != nil {
			return err
		}
	}
	return writeOutput(cmd.OutOrStdout(), f.output, body)
}

func (a *app) renderReport(cmd *cobra.Command, res *landscape.Result, format string) ([]byte, error) {
	var overview string
	if s := a.summarizer(); s != nil {
		text, err := s.Summarize(cmd.Context(), res)
		if err != nil {
			a.log.Warn("narrative unavailable", "disease", res.Disease, "error", err)
		}
		overview = text
	}
	md := report.BuildMarkdown(res, report.Options{Narrative: overview})
	title := "Drug Landscape: " + res.Disease

	switch format {
	case "html":
		doc, err := report.RenderHTML(title, md)
		if err != nil {
			return nil, err
		}
		return []byte(doc), nil
	case "pdf":
		return report.NewChromiumPDFRenderer(a.cfg.Report.ChromePath).Render(cmd.Context(), title, md)
	default:
		return []byte(md), nil
	}
}

func writeOutput(stdout io.Writer, path string, body []byte) error {
	if path == "" {
		_, err := stdout.Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
