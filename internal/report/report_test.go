package report

import (
	"strings"
	"testing"

	"github.com/joelkehle/drug-landscape/internal/landscape"
	"github.com/joelkehle/drug-landscape/internal/palette"
)

func sampleResult() *landscape.Result {
	return &landscape.Result{
		Disease:               "Lupus",
		IncludeSecondary:      true,
		Interventions:         landscape.Distribution{"DRUG": 2, "BIOLOGICAL": 1},
		Phases:                landscape.Distribution{"PHASE3": 1},
		PublicationTypes:      landscape.Distribution{"Review": 1},
		TrialCategories:       landscape.Distribution{"L": 1, "Unknown": 1},
		PublicationCategories: landscape.Distribution{},
		TopTrialDrugs:         []landscape.DrugCount{{Drug: "A", Count: 1}, {Drug: "B|X", Count: 1}},
		TopPublicationDrugs:   []landscape.DrugCount{},
		Phase34Drugs:          []string{"A"},
		Recommendations: landscape.Recommendations{
			Status:          landscape.RecommendationsFound,
			Items:           []landscape.Recommendation{{Drug: "C", Count: 2, Diseases: []string{"Arthritis"}, NCTIDs: []string{"3", "4"}}},
			SimilarDiseases: []string{"Arthritis"},
		},
		Rows: []landscape.ResultRow{
			{ID: "1", Disease: "Lupus", Drug: "A", Source: landscape.SourceTrial},
			{ID: "2", Disease: "Lupus", Drug: "<b>", Source: landscape.SourceTrial},
			{ID: "100", Disease: "Lupus", Drug: "A", Source: landscape.SourcePublication},
		},
		Notes: []landscape.Note{},
	}
}

func TestBuildMarkdownSections(t *testing.T) {
	md := BuildMarkdown(sampleResult(), Options{Narrative: "Lupus trials focus on biologics."})
	for _, want := range []string{
		"# Drug Landscape: Lupus",
		"## Overview\n\nLupus trials focus on biologics.",
		"### Intervention Types",
		"| DRUG | 2 |",
		"Total: 3",
		"| 2 | B\\|X | 1 |",
		"- A\n",
		"| C | 2 | Arthritis | 3, 4 |",
		"| 2 | Lupus | &lt;b&gt; | Trial |",
		"### Top Publication Drugs\n\nNo data.",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestBuildMarkdownEmptyStates(t *testing.T) {
	res := sampleResult()
	res.IncludeSecondary = false
	res.Phase34Drugs = []string{}
	res.Recommendations = landscape.Recommendations{Status: landscape.NoOverlappingDiseases, Items: []landscape.Recommendation{}}
	res.Notes = []landscape.Note{{Code: landscape.NoteSecondaryExcluded, Message: "Publication data excluded; publication charts are empty."}}
	md := BuildMarkdown(res, Options{})
	for _, want := range []string{
		"> Publication data excluded",
		"Publication data was excluded from this report.",
		"### Phase 3/4 Drugs\n\nNone found.",
		landscape.RecommendationMessage(landscape.NoOverlappingDiseases),
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestBuildMarkdownCapsRows(t *testing.T) {
	md := BuildMarkdown(sampleResult(), Options{MaxRows: 2})
	if !strings.Contains(md, "Showing 2 of 3 rows.") {
		t.Fatalf("expected row cap line:\n%s", md)
	}
	if strings.Contains(md, "| 100 |") {
		t.Fatal("expected third row to be cut")
	}
}

func TestBuildMarkdownUsesInjectedColors(t *testing.T) {
	colors := palette.NewMemo([]string{"#123456"})
	md := BuildMarkdown(sampleResult(), Options{Colors: colors})
	if !strings.Contains(md, "background:#123456") {
		t.Fatalf("expected injected color in swatches:\n%s", md)
	}
}

func TestRenderHTML(t *testing.T) {
	md := BuildMarkdown(sampleResult(), Options{})
	doc, err := RenderHTML("Lupus <report>", md)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	for _, want := range []string{
		"<title>Lupus &lt;report&gt;</title>",
		"<table>",
		`<span class="swatch"`,
		"<h1>Drug Landscape: Lupus</h1>",
		"&lt;b&gt;",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("html missing %q", want)
		}
	}
	if strings.Contains(doc, "<b></td>") {
		t.Fatal("data value rendered as raw html")
	}
}
