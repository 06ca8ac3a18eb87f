package landscape

import (
	"sort"

	"github.com/joelkehle/drug-landscape/internal/fields"
	"github.com/joelkehle/drug-landscape/internal/records"
)

// RecommendationStatus says why a recommendation list is, or is not, empty.
type RecommendationStatus string

const (
	RecommendationsFound  RecommendationStatus = "ok"
	NoTrialDrugs          RecommendationStatus = "no_trial_drugs"
	NoOverlappingDiseases RecommendationStatus = "no_overlapping_diseases"
	NoNovelCandidates     RecommendationStatus = "no_novel_candidates"
)

type Recommendation struct {
	Drug     string   `json:"drug"`
	Count    int      `json:"count"`
	Diseases []string `json:"diseases"`
	NCTIDs   []string `json:"ncts"`
}

type Recommendations struct {
	Status          RecommendationStatus `json:"status"`
	Items           []Recommendation     `json:"items"`
	SimilarDiseases []string             `json:"similar_diseases"`
	SelectedDrugs   int                  `json:"selected_drug_count"`
}

type candidate struct {
	ncts     map[string]struct{}
	diseases map[string]struct{}
}

// recommend finds diseases sharing at least one trial drug with disease and ranks
// the drugs used against them that disease has not used yet, by distinct trials.
func recommend(links []records.Row, disease string, limit int) Recommendations {
	selected := map[string]struct{}{}
	for _, row := range MatchingRows(links, disease) {
		if drug := row.Get(records.ColDrugName); drug != "" {
			selected[drug] = struct{}{}
		}
	}

	diseaseToDrugs := map[string]map[string]struct{}{}
	for _, row := range links {
		d := row.Get(records.ColDisease)
		drug := row.Get(records.ColDrugName)
		if d == "" {
			continue
		}
		if diseaseToDrugs[d] == nil {
			diseaseToDrugs[d] = map[string]struct{}{}
		}
		if drug != "" {
			diseaseToDrugs[d][drug] = struct{}{}
		}
	}

	similar := map[string]struct{}{}
	for d, drugs := range diseaseToDrugs {
		if fields.DiseaseMatch(d, disease) {
			continue
		}
		if intersects(drugs, selected) {
			similar[d] = struct{}{}
		}
	}

	candidates := map[string]*candidate{}
	for _, row := range links {
		d := row.Get(records.ColDisease)
		drug := row.Get(records.ColDrugName)
		nct := row.Get(records.ColNCTID)
		if _, ok := similar[d]; !ok || drug == "" || nct == "" {
			continue
		}
		if _, used := selected[drug]; used {
			continue
		}
		c := candidates[drug]
		if c == nil {
			c = &candidate{ncts: map[string]struct{}{}, diseases: map[string]struct{}{}}
			candidates[drug] = c
		}
		c.ncts[nct] = struct{}{}
		c.diseases[d] = struct{}{}
	}

	items := make([]Recommendation, 0, len(candidates))
	for drug, c := range candidates {
		items = append(items, Recommendation{
			Drug:     drug,
			Count:    len(c.ncts),
			Diseases: sortedKeys(c.diseases),
			NCTIDs:   sortedKeys(c.ncts),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Drug < items[j].Drug
	})
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}

	out := Recommendations{
		Items:           items,
		SimilarDiseases: sortedKeys(similar),
		SelectedDrugs:   len(selected),
	}
	switch {
	case len(items) > 0:
		out.Status = RecommendationsFound
	case len(selected) == 0:
		out.Status = NoTrialDrugs
	case len(similar) == 0:
		out.Status = NoOverlappingDiseases
	default:
		out.Status = NoNovelCandidates
	}
	return out
}

func intersects(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
