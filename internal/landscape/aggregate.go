package landscape

import (
	"sort"

	"github.com/joelkehle/drug-landscape/internal/fields"
	"github.com/joelkehle/drug-landscape/internal/records"
)

// Distribution maps a label to its raw occurrence count.
type Distribution map[string]int

// Total is the sum of all counts.
func (d Distribution) Total() int {
	n := 0
	for _, c := range d {
		n += c
	}
	return n
}

// Sorted returns the labels by count descending, then label ascending.
func (d Distribution) Sorted() []LabelCount {
	out := make([]LabelCount, 0, len(d))
	for label, count := range d {
		out = append(out, LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type DrugCount struct {
	Drug  string `json:"drug"`
	Count int    `json:"count"`
}

// MatchingRows keeps the rows whose Disease matches disease, in source order.
func MatchingRows(rows []records.Row, disease string) []records.Row {
	out := []records.Row{}
	for _, row := range rows {
		if fields.DiseaseMatch(row.Get(records.ColDisease), disease) {
			out = append(out, row)
		}
	}
	return out
}

// DistributionBy counts valueField over the rows matching disease. Multi-valued
// fields contribute one count per SplitMulti token, so the total is the token
// count rather than the row count. Empty single values are not counted.
func DistributionBy(rows []records.Row, disease, valueField string, multiValued bool) Distribution {
	return distribution(MatchingRows(rows, disease), func(row records.Row) []string {
		v := row.Get(valueField)
		if multiValued {
			return fields.SplitMulti(v)
		}
		if v == "" {
			return nil
		}
		return []string{v}
	})
}

// CategoryDistribution counts the resolved category of every matching link row's
// drug. Unresolvable drugs land in UnknownCategory.
func CategoryDistribution(rows []records.Row, disease string, resolver *CategoryResolver) Distribution {
	return distribution(MatchingRows(rows, disease), func(row records.Row) []string {
		return []string{resolver.CategoryOf(row.Get(records.ColDrugName))}
	})
}

func distribution(rows []records.Row, values func(records.Row) []string) Distribution {
	out := Distribution{}
	for _, row := range rows {
		for _, v := range values(row) {
			out[v]++
		}
	}
	return out
}

// TopNDrugs ranks drug names among the rows matching disease by occurrence count.
// Ties break on drug name ascending. Rows without a drug name are skipped.
func TopNDrugs(rows []records.Row, disease string, n int) []DrugCount {
	out := []DrugCount{}
	if n <= 0 {
		return out
	}
	counts := map[string]int{}
	for _, row := range MatchingRows(rows, disease) {
		drug := row.Get(records.ColDrugName)
		if drug == "" {
			continue
		}
		counts[drug]++
	}
	for drug, count := range counts {
		out = append(out, DrugCount{Drug: drug, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Drug < out[j].Drug
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
