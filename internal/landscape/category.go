package landscape

import "github.com/joelkehle/drug-landscape/internal/records"

// UnknownCategory is reported for drugs with no dictionary entry or an empty
// ATC level.
const UnknownCategory = "Unknown"

// CategoryResolver maps drug names to their top-level ATC category. Names match
// exactly: no trimming, case-sensitive.
type CategoryResolver struct {
	byName map[string]string
}

// NewCategoryResolver indexes the dictionary once. The first entry for a name
// decides its category, even when that entry's level is empty.
func NewCategoryResolver(dictionary []records.Row) *CategoryResolver {
	byName := make(map[string]string, len(dictionary))
	for _, row := range dictionary {
		name, ok := row[records.ColDrugName]
		if !ok {
			continue
		}
		if _, seen := byName[name]; seen {
			continue
		}
		byName[name] = row.Get(records.ColATCLevel1)
	}
	return &CategoryResolver{byName: byName}
}

func (c *CategoryResolver) CategoryOf(drugName string) string {
	if cat := c.byName[drugName]; cat != "" {
		return cat
	}
	return UnknownCategory
}
