package landscape

import (
	"reflect"
	"testing"

	"github.com/joelkehle/drug-landscape/internal/records"
)

func TestRecommendScenario(t *testing.T) {
	links := []records.Row{
		link("Lupus", "A", "1"),
		link("Lupus", "B", "2"),
		link("Arthritis", "A", "3"),
		link("Arthritis", "C", "3"),
		link("Arthritis", "C", "4"),
	}
	got := recommend(links, "Lupus", 5)
	want := []Recommendation{{Drug: "C", Count: 2, Diseases: []string{"Arthritis"}, NCTIDs: []string{"3", "4"}}}
	if !reflect.DeepEqual(got.Items, want) {
		t.Fatalf("items = %#v, want %#v", got.Items, want)
	}
	if got.Status != RecommendationsFound {
		t.Fatalf("status = %s", got.Status)
	}
	if !reflect.DeepEqual(got.SimilarDiseases, []string{"Arthritis"}) || got.SelectedDrugs != 2 {
		t.Fatalf("unexpected intermediates: %#v", got)
	}
}

func TestRecommendEmptyStatuses(t *testing.T) {
	links := []records.Row{
		link("Lupus", "A", "1"),
		link("Lupus", "B", "2"),
		link("Arthritis", "A", "3"),
		link("Arthritis", "B", "4"),
		link("Isolated", "Q", "5"),
		link("Isolated", "Q", "6"),
	}
	cases := []struct {
		disease string
		status  RecommendationStatus
	}{
		{"Unknown Disease", NoTrialDrugs},
		{"Isolated", NoOverlappingDiseases},
		{"Lupus", NoNovelCandidates},
	}
	for _, tc := range cases {
		got := recommend(links, tc.disease, 5)
		if len(got.Items) != 0 {
			t.Fatalf("%s: expected no items, got %#v", tc.disease, got.Items)
		}
		if got.Items == nil {
			t.Fatalf("%s: expected empty non-nil items", tc.disease)
		}
		if got.Status != tc.status {
			t.Fatalf("%s: status = %s, want %s", tc.disease, got.Status, tc.status)
		}
	}
}

func TestRecommendExcludesSelectedDiseaseSpellings(t *testing.T) {
	links := []records.Row{
		link("Lupus", "A", "1"),
		link(" LUPUS ", "D", "2"),
		link("Arthritis", "A", "3"),
	}
	got := recommend(links, "lupus", 5)
	// " LUPUS " is the selected disease, so its drug D is selected, not recommended,
	// and Arthritis offers nothing new.
	if got.Status != NoNovelCandidates {
		t.Fatalf("status = %s, items = %#v", got.Status, got.Items)
	}
	if got.SelectedDrugs != 2 {
		t.Fatalf("selected = %d, want 2", got.SelectedDrugs)
	}
}

func TestRecommendRanksByDistinctTrialsThenName(t *testing.T) {
	links := []records.Row{
		link("Lupus", "A", "1"),
		link("Arthritis", "A", "2"),
		link("Arthritis", "Zeta", "3"),
		link("Arthritis", "Zeta", "3"),
		link("Gout", "A", "4"),
		link("Gout", "Beta", "5"),
		link("Gout", "Zeta", "6"),
		link("Arthritis", "Alpha", "7"),
		link("Asthma", "Omega", "8"),
		link("Gout", "", "9"),
	}
	got := recommend(links, "Lupus", 5)
	want := []Recommendation{
		{Drug: "Zeta", Count: 2, Diseases: []string{"Arthritis", "Gout"}, NCTIDs: []string{"3", "6"}},
		{Drug: "Alpha", Count: 1, Diseases: []string{"Arthritis"}, NCTIDs: []string{"7"}},
		{Drug: "Beta", Count: 1, Diseases: []string{"Gout"}, NCTIDs: []string{"5"}},
	}
	if !reflect.DeepEqual(got.Items, want) {
		t.Fatalf("items = %#v, want %#v", got.Items, want)
	}
}

func TestRecommendLimit(t *testing.T) {
	links := []records.Row{link("Lupus", "A", "1"), link("Other", "A", "2")}
	for i, drug := range []string{"D1", "D2", "D3", "D4", "D5", "D6", "D7"} {
		links = append(links, link("Other", drug, string(rune('a'+i))))
	}
	got := recommend(links, "Lupus", 5)
	if len(got.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got.Items))
	}
	if got.Items[0].Drug != "D1" || got.Items[4].Drug != "D5" {
		t.Fatalf("unexpected order: %#v", got.Items)
	}
}
