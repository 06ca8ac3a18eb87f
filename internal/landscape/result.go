package landscape

import (
	"fmt"

	"github.com/joelkehle/drug-landscape/internal/records"
)

const (
	SourceTrial       = "Trial"
	SourcePublication = "Publication"
)

const (
	NoteNoRecords         = "no_records"
	NoteSecondaryExcluded = "secondary_excluded"
	NoteNoPhase34         = "no_phase34"
)

// ResultRow is one flattened drug link for tabular display.
type ResultRow struct {
	ID      string `json:"id"`
	Disease string `json:"disease"`
	Drug    string `json:"drug"`
	Source  string `json:"source"`
}

type Note struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Result struct {
	Disease          string `json:"disease"`
	IncludeSecondary bool   `json:"include_secondary"`

	Interventions         Distribution `json:"interventions"`
	Phases                Distribution `json:"phases"`
	PublicationTypes      Distribution `json:"publication_types"`
	TrialCategories       Distribution `json:"trial_categories"`
	PublicationCategories Distribution `json:"publication_categories"`

	TopTrialDrugs       []DrugCount `json:"top_trial_drugs"`
	TopPublicationDrugs []DrugCount `json:"top_publication_drugs"`

	Phase34Drugs    []string        `json:"phase34_drugs"`
	Recommendations Recommendations `json:"recommendations"`

	Rows  []ResultRow `json:"rows"`
	Notes []Note      `json:"notes"`
}

// HasNote reports whether the assembler attached a note with code.
func (r *Result) HasNote(code string) bool {
	for _, n := range r.Notes {
		if n.Code == code {
			return true
		}
	}
	return false
}

var recommendationMessages = map[RecommendationStatus]string{
	NoTrialDrugs:          "No trial drugs found for this disease, so no similar diseases can be identified.",
	NoOverlappingDiseases: "No other disease shares a trial drug with this disease.",
	NoNovelCandidates:     "Similar diseases use no drugs beyond those already trialled for this disease.",
}

// RecommendationMessage is the empty-state text for a status, or "" for found.
func RecommendationMessage(status RecommendationStatus) string {
	return recommendationMessages[status]
}

// resultRows flattens the matching trial-link rows and, when included, the
// matching publication-link rows.
func resultRows(trialLinks, pubLinks []records.Row, includeSecondary bool) []ResultRow {
	out := make([]ResultRow, 0, len(trialLinks)+len(pubLinks))
	for _, row := range trialLinks {
		out = append(out, ResultRow{
			ID:      row.Get(records.ColNCTID),
			Disease: row.Get(records.ColDisease),
			Drug:    row.Get(records.ColDrugName),
			Source:  SourceTrial,
		})
	}
	if !includeSecondary {
		return out
	}
	for _, row := range pubLinks {
		out = append(out, ResultRow{
			ID:      row.Get(records.ColPMID),
			Disease: row.Get(records.ColDisease),
			Drug:    row.Get(records.ColDrugName),
			Source:  SourcePublication,
		})
	}
	return out
}

func assembleNotes(r *Result, matchedTrials, matchedPublications int) []Note {
	notes := []Note{}
	if len(r.Rows) == 0 && matchedTrials == 0 && matchedPublications == 0 {
		notes = append(notes, Note{
			Code:    NoteNoRecords,
			Message: fmt.Sprintf("No trial or publication records found for %q.", r.Disease),
		})
	}
	if !r.IncludeSecondary {
		notes = append(notes, Note{
			Code:    NoteSecondaryExcluded,
			Message: "Publication data excluded; publication charts are empty.",
		})
	}
	if len(r.Phase34Drugs) == 0 {
		notes = append(notes, Note{
			Code:    NoteNoPhase34,
			Message: "No drugs from phase 3 or phase 4 trials found.",
		})
	}
	if msg := RecommendationMessage(r.Recommendations.Status); msg != "" {
		notes = append(notes, Note{Code: string(r.Recommendations.Status), Message: msg})
	}
	return notes
}
