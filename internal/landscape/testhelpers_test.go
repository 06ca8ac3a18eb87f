package landscape

import (
	"testing"

	"github.com/joelkehle/drug-landscape/internal/records"
)

func link(disease, drug, nct string) records.Row {
	return records.Row{records.ColDisease: disease, records.ColDrugName: drug, records.ColNCTID: nct}
}

func trial(disease, interventions, phases, nct string) records.Row {
	return records.Row{
		records.ColDisease:           disease,
		records.ColInterventionTypes: interventions,
		records.ColPhases:            phases,
		records.ColNCTID:             nct,
	}
}

// newTestEngine builds the Lupus/Arthritis fixture used across engine tests.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store := records.NewStore(map[records.Dataset][]records.Row{
		records.Trials: {
			trial("Lupus", "DRUG, BIOLOGICAL", "PHASE2/PHASE3", "1"),
			trial(" lupus", "DRUG", "PHASE1", "2"),
			trial("Arthritis", "DRUG;PROCEDURE", "PHASE4", "3"),
			trial("Arthritis", "DRUG", "", "4"),
		},
		records.TrialDrugs: {
			link("Lupus", "A", "1"),
			link("Lupus", "B", "2"),
			link("Arthritis", "A", "3"),
			link("Arthritis", "C", "3"),
			link("Arthritis", "C", "4"),
		},
		records.PublicationDrugs: {
			{records.ColDisease: "Lupus", records.ColDrugName: "A", records.ColPMID: "100"},
			{records.ColDisease: "LUPUS", records.ColDrugName: "Z", records.ColPMID: "101"},
			{records.ColDisease: "Lupus", records.ColDrugName: "A", records.ColPMID: "102"},
		},
		records.Publications: {
			{records.ColDisease: "Lupus", records.ColPublicationTypes: "Journal Article; Review", records.ColPMID: "100"},
			{records.ColDisease: "Lupus", records.ColPublicationTypes: "Journal Article", records.ColPMID: "101"},
			{records.ColDisease: "Gout", records.ColPublicationTypes: "Review", records.ColPMID: "103"},
		},
		records.DrugDictionary: {
			{records.ColDrugName: "A", records.ColATCLevel1: "L"},
			{records.ColDrugName: "B", records.ColATCLevel1: ""},
			{records.ColDrugName: "C", records.ColATCLevel1: "M"},
			{records.ColDrugName: "A", records.ColATCLevel1: "N"},
		},
	})
	return NewEngine(store, Options{}, nil)
}
