package landscape

import (
	"sort"
	"strings"

	"github.com/joelkehle/drug-landscape/internal/fields"
	"github.com/joelkehle/drug-landscape/internal/records"
)

var latePhaseMarkers = []string{"PHASE3", "PHASE4"}

// trialDrugIndex maps a trial identifier to the drug names linked to it.
type trialDrugIndex map[string][]string

func newTrialDrugIndex(links []records.Row) trialDrugIndex {
	idx := trialDrugIndex{}
	for _, row := range links {
		nct := row.Get(records.ColNCTID)
		drug := row.Get(records.ColDrugName)
		if nct == "" || drug == "" {
			continue
		}
		idx[nct] = append(idx[nct], drug)
	}
	return idx
}

// IsLatePhase reports whether a Phases cell mentions phase 3 or 4. Matching is by
// substring, so "PHASE2/PHASE3" and "PHASE3B" both qualify.
func IsLatePhase(phases string) bool {
	for _, marker := range latePhaseMarkers {
		if strings.Contains(phases, marker) {
			return true
		}
	}
	return false
}

// phase34Drugs returns the sorted, de-duplicated drugs linked to phase 3/4 trials
// of disease. The trial-drug join is on NCT ID alone.
func phase34Drugs(trials []records.Row, idx trialDrugIndex, disease string) []string {
	set := map[string]struct{}{}
	for _, trial := range trials {
		if !fields.DiseaseMatch(trial.Get(records.ColDisease), disease) {
			continue
		}
		if !IsLatePhase(trial.Get(records.ColPhases)) {
			continue
		}
		for _, drug := range idx[trial.Get(records.ColNCTID)] {
			set[drug] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
