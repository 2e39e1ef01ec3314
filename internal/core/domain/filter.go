package domain

// DefaultPageSize is the page size used when FilterCriteria.Limit
// is zero or negative.
const DefaultPageSize = 50

// FilterCriteria configures an ad-hoc filtered search. Every filter
// field is optional; a field that is empty after trimming whitespace
// contributes no predicate. Empty criteria match the entire dataset
// in storage order.
type FilterCriteria struct {
	// Query is a free-text term tested for case-insensitive substring
	// containment across the searchable columns (id, gene, gene
	// aliases, condition, significance).
	Query string

	// Chromosome filters by exact match on the chromosome column.
	Chromosome string

	// Gene is tested for substring containment across the gene-name
	// columns (gene, gene aliases).
	Gene string

	// Significance is tested for substring containment on the clinical
	// significance column. Containment rather than equality because
	// significance values are compound, e.g. "Pathogenic/Likely pathogenic".
	Significance string

	// Condition is tested for substring containment on the condition
	// column.
	Condition string

	// Limit is the maximum number of results. Defaults to DefaultPageSize.
	Limit int

	// Offset is the number of results to skip. Defaults to 0.
	Offset int
}

// Normalized returns a copy of the criteria with pagination defaults
// applied: non-positive Limit becomes DefaultPageSize, negative Offset
// becomes 0. Filter fields are left untouched.
func (c FilterCriteria) Normalized() FilterCriteria {
	if c.Limit <= 0 {
		c.Limit = DefaultPageSize
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
	return c
}

// SearchPage is one page of filtered search results.
type SearchPage struct {
	// Results is the requested page, at most Limit records, in the
	// dataset's storage order.
	Results []VariantRecord

	// Total is the size of the full filtered set, independent of
	// Limit and Offset.
	Total int
}
