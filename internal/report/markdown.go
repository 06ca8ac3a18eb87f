// Package report renders landscape results as markdown, HTML and PDF.
package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/joelkehle/drug-landscape/internal/landscape"
	"github.com/joelkehle/drug-landscape/internal/palette"
)

const defaultMaxRows = 200

type Options struct {
	// Colors assigns a swatch color per chart label. Nil uses a fresh palette.Memo.
	Colors palette.Assigner
	// Narrative is optional prose placed under the summary.
	Narrative string
	// MaxRows caps the result rows table; <= 0 uses 200.
	MaxRows int
}

func BuildMarkdown(res *landscape.Result, opts Options) string {
	colors := opts.Colors
	if colors == nil {
		colors = palette.NewMemo(nil)
	}
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}

	var b strings.Builder
	buildHeader(&b, res)
	buildNotes(&b, res)
	if strings.TrimSpace(opts.Narrative) != "" {
		fmt.Fprintf(&b, "## Overview\n\n%s\n\n", strings.TrimSpace(opts.Narrative))
	}

	fmt.Fprintf(&b, "## Trials\n\n")
	buildDistribution(&b, "Intervention Types", res.Interventions, colors)
	buildDistribution(&b, "Phases", res.Phases, colors)
	buildDistribution(&b, "Drug Categories (ATC)", res.TrialCategories, colors)
	buildRanking(&b, "Top Trial Drugs", res.TopTrialDrugs)
	buildPhase34(&b, res.Phase34Drugs)

	fmt.Fprintf(&b, "## Publications\n\n")
	if !res.IncludeSecondary {
		fmt.Fprintf(&b, "Publication data was excluded from this report.\n\n")
	}
	buildDistribution(&b, "Publication Types", res.PublicationTypes, colors)
	buildDistribution(&b, "Drug Categories (ATC)", res.PublicationCategories, colors)
	buildRanking(&b, "Top Publication Drugs", res.TopPublicationDrugs)

	buildRecommendations(&b, res.Recommendations)
	buildRows(&b, res.Rows, maxRows)
	return b.String()
}

func buildHeader(b *strings.Builder, res *landscape.Result) {
	fmt.Fprintf(b, "# Drug Landscape: %s\n\n", cell(res.Disease))
	fmt.Fprintf(b, "- Publications included: %t\n", res.IncludeSecondary)
	fmt.Fprintf(b, "- Linked rows: %d\n", len(res.Rows))
	fmt.Fprintf(b, "- Distinct top trial drugs: %d\n", len(res.TopTrialDrugs))
	fmt.Fprintf(b, "- Phase 3/4 drugs: %d\n", len(res.Phase34Drugs))
	fmt.Fprintf(b, "- Recommendations: %d\n\n", len(res.Recommendations.Items))
}

func buildNotes(b *strings.Builder, res *landscape.Result) {
	if len(res.Notes) == 0 {
		return
	}
	for _, n := range res.Notes {
		fmt.Fprintf(b, "> %s\n", cell(n.Message))
	}
	b.WriteString("\n")
}

func buildDistribution(b *strings.Builder, title string, d landscape.Distribution, colors palette.Assigner) {
	fmt.Fprintf(b, "### %s\n\n", title)
	if len(d) == 0 {
		fmt.Fprintf(b, "No data.\n\n")
		return
	}
	fmt.Fprintf(b, "| | Label | Count |\n|---|---|---:|\n")
	for _, lc := range d.Sorted() {
		fmt.Fprintf(b, "| %s | %s | %d |\n", swatch(colors.Assign(lc.Label)), cell(lc.Label), lc.Count)
	}
	fmt.Fprintf(b, "\nTotal: %d\n\n", d.Total())
}

func buildRanking(b *strings.Builder, title string, ranked []landscape.DrugCount) {
	fmt.Fprintf(b, "### %s\n\n", title)
	if len(ranked) == 0 {
		fmt.Fprintf(b, "No data.\n\n")
		return
	}
	fmt.Fprintf(b, "| Rank | Drug | Count |\n|---:|---|---:|\n")
	for i, dc := range ranked {
		fmt.Fprintf(b, "| %d | %s | %d |\n", i+1, cell(dc.Drug), dc.Count)
	}
	b.WriteString("\n")
}

func buildPhase34(b *strings.Builder, drugs []string) {
	fmt.Fprintf(b, "### Phase 3/4 Drugs\n\n")
	if len(drugs) == 0 {
		fmt.Fprintf(b, "None found.\n\n")
		return
	}
	for _, d := range drugs {
		fmt.Fprintf(b, "- %s\n", cell(d))
	}
	b.WriteString("\n")
}

func buildRecommendations(b *strings.Builder, recs landscape.Recommendations) {
	fmt.Fprintf(b, "## Recommended Drugs\n\n")
	if len(recs.Items) == 0 {
		fmt.Fprintf(b, "%s\n\n", landscape.RecommendationMessage(recs.Status))
		return
	}
	fmt.Fprintf(b, "Drugs trialled against diseases that share at least one drug with this disease (%d similar diseases).\n\n", len(recs.SimilarDiseases))
	fmt.Fprintf(b, "| Drug | Trials | Diseases | NCT IDs |\n|---|---:|---|---|\n")
	for _, r := range recs.Items {
		fmt.Fprintf(b, "| %s | %d | %s | %s |\n", cell(r.Drug), r.Count, cell(strings.Join(r.Diseases, ", ")), cell(strings.Join(r.NCTIDs, ", ")))
	}
	b.WriteString("\n")
}

func buildRows(b *strings.Builder, rows []landscape.ResultRow, max int) {
	fmt.Fprintf(b, "## Linked Records\n\n")
	if len(rows) == 0 {
		fmt.Fprintf(b, "No linked records.\n")
		return
	}
	fmt.Fprintf(b, "| ID | Disease | Drug | Source |\n|---|---|---|---|\n")
	for i, r := range rows {
		if i >= max {
			break
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", cell(r.ID), cell(r.Disease), cell(r.Drug), r.Source)
	}
	if len(rows) > max {
		fmt.Fprintf(b, "\nShowing %d of %d rows.\n", max, len(rows))
	}
}

func swatch(color string) string {
	return `<span class="swatch" style="background:` + html.EscapeString(color) + `"></span>`
}

// cell makes a data value safe inside a GFM table cell rendered with raw HTML on.
func cell(s string) string {
	s = html.EscapeString(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
