// Package records holds the five source datasets as ordered row sequences and
// knows how to load them from CSV files, URLs and SQLite snapshots.
package records

import "sort"

type Dataset string

const (
	Trials           Dataset = "trials"
	TrialDrugs       Dataset = "trial_drugs"
	PublicationDrugs Dataset = "publication_drugs"
	Publications     Dataset = "publications"
	DrugDictionary   Dataset = "drug_dictionary"
)

// AllDatasets lists every dataset the store requires, in load order.
var AllDatasets = []Dataset{Trials, TrialDrugs, PublicationDrugs, Publications, DrugDictionary}

// Column names as they appear in the source CSV headers.
const (
	ColDisease           = "Disease"
	ColInterventionTypes = "Intervention Types"
	ColPhases            = "Phases"
	ColNCTID             = "NCT ID"
	ColDrugName          = "Drug Name"
	ColPMID              = "PMID"
	ColPublicationTypes  = "PublicationTypes"
	ColATCLevel1         = "ATC 1st Level"
)

func (d Dataset) Valid() bool {
	for _, ds := range AllDatasets {
		if d == ds {
			return true
		}
	}
	return false
}

// Row is one CSV record keyed by header name. Values are never coerced.
type Row map[string]string

// Get returns the value of col, or "" when the column is absent.
func (r Row) Get(col string) string {
	return r[col]
}

// Store is immutable once built and safe for concurrent readers.
type Store struct {
	data map[Dataset][]Row
}

// NewStore takes ownership of the given rows. Datasets missing from the map are
// stored as empty sequences.
func NewStore(data map[Dataset][]Row) *Store {
	s := &Store{data: make(map[Dataset][]Row, len(AllDatasets))}
	for _, ds := range AllDatasets {
		rows := data[ds]
		if rows == nil {
			rows = []Row{}
		}
		s.data[ds] = rows
	}
	return s
}

// Rows returns the dataset in source order. Callers must not modify it.
func (s *Store) Rows(ds Dataset) []Row {
	if s == nil {
		return nil
	}
	return s.data[ds]
}

func (s *Store) Len(ds Dataset) int {
	return len(s.Rows(ds))
}

// Has reports whether the dataset holds at least one row.
func (s *Store) Has(ds Dataset) bool {
	return s.Len(ds) > 0
}

// Counts returns the row count per dataset.
func (s *Store) Counts() map[string]int {
	out := make(map[string]int, len(AllDatasets))
	for _, ds := range AllDatasets {
		out[string(ds)] = s.Len(ds)
	}
	return out
}

// DistinctDiseases is the ascending union of Disease values across the four
// disease-bearing datasets. Values are de-duplicated exactly; empty values dropped.
func (s *Store) DistinctDiseases() []string {
	seen := map[string]struct{}{}
	for _, ds := range []Dataset{Trials, TrialDrugs, PublicationDrugs, Publications} {
		for _, row := range s.Rows(ds) {
			d := row.Get(ColDisease)
			if d == "" {
				continue
			}
			seen[d] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
