package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
)

const createVariantsSQL = `
	CREATE TABLE variants (
		id TEXT PRIMARY KEY,
		chromosome TEXT,
		position INTEGER,
		assembly TEXT,
		cytogenetic TEXT,
		reference_allele TEXT,
		alternate_allele TEXT,
		variant_type TEXT,
		gene TEXT,
		gene_aliases TEXT,
		transcript TEXT,
		consequence TEXT,
		significance TEXT,
		review_status TEXT,
		condition TEXT,
		phenotype_ids TEXT,
		origin TEXT,
		molecular_consequence TEXT,
		hgvs_coding TEXT,
		hgvs_protein TEXT,
		accession TEXT,
		allele_id INTEGER,
		gnomad_frequency REAL,
		thousand_genomes_frequency REAL,
		dbsnp_build INTEGER,
		submitter_count INTEGER,
		last_evaluated TEXT,
		record_url TEXT
	)`

// seedVariant is a minimal fixture row; empty strings become NULLs.
type seedVariant struct {
	id           string
	chromosome   string
	gene         string
	geneAliases  string
	significance string
	condition    string
}

// buildImage creates a SQLite dataset image holding the given rows,
// in insertion order, and returns its raw bytes.
func buildImage(t *testing.T, rows []seedVariant) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)

	_, err = db.Exec(createVariantsSQL)
	require.NoError(t, err)

	for _, row := range rows {
		_, err = db.Exec(`
			INSERT INTO variants (id, chromosome, gene, gene_aliases, significance, condition)
			VALUES (?, ?, ?, ?, ?, ?)
		`, row.id, nullable(row.chromosome), nullable(row.gene),
			nullable(row.geneAliases), nullable(row.significance), nullable(row.condition))
		require.NoError(t, err)
	}

	require.NoError(t, db.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// openStore materialises a fixture image and registers cleanup.
func openStore(t *testing.T, rows []seedVariant) *Store {
	t.Helper()

	store, err := Open(buildImage(t, rows))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

// --- Materialisation ---

func TestOpen_InvalidImage(t *testing.T) {
	_, err := Open([]byte("this is not a sqlite database"))
	require.Error(t, err)
}

func TestOpen_MissingVariantsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE other (id TEXT)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = Open(data)
	require.Error(t, err)
}

func TestOpen_ValidImage(t *testing.T) {
	store := openStore(t, []seedVariant{
		{id: "rs1"}, {id: "rs2"},
	})

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 999, store.MaxBindParams())
}

// --- LookupBatch ---

func TestLookupBatch_FoundAndMissing(t *testing.T) {
	store := openStore(t, []seedVariant{
		{id: "rs1", gene: "BRCA1"},
		{id: "rs2", gene: "TP53"},
	})

	rows, err := store.LookupBatch(context.Background(), []string{"rs1", "rs404"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "rs1", rows[0].ID)
	require.NotNil(t, rows[0].Gene)
	assert.Equal(t, "BRCA1", *rows[0].Gene)
	assert.Nil(t, rows[0].Condition)
}

func TestLookupBatch_CaseInsensitiveAgainstStoredID(t *testing.T) {
	store := openStore(t, []seedVariant{
		{id: "Rs123", gene: "MTHFR"},
	})

	// Lookup ids arrive pre-lowercased; lower(id) matches the stored
	// mixed-case row.
	rows, err := store.LookupBatch(context.Background(), []string{"rs123"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rs123", rows[0].ID)
}

func TestLookupBatch_EmptyInput(t *testing.T) {
	store := openStore(t, []seedVariant{{id: "rs1"}})

	rows, err := store.LookupBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLookupBatch_CeilingEnforced(t *testing.T) {
	store := openStore(t, []seedVariant{{id: "rs1"}})

	ids := make([]string, maxBindParams)
	for i := range ids {
		ids[i] = fmt.Sprintf("rs%d", i)
	}

	_, err := store.LookupBatch(context.Background(), ids)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// --- Search ---

func TestSearch_EmptyCriteriaReturnsFirstPageInStorageOrder(t *testing.T) {
	store := openStore(t, []seedVariant{
		{id: "rs3"}, {id: "rs1"}, {id: "rs2"},
	})

	page, err := store.Search(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Results, 3)
	// rowid order, i.e. insertion order, not lexical order.
	assert.Equal(t, "rs3", page.Results[0].ID)
	assert.Equal(t, "rs1", page.Results[1].ID)
	assert.Equal(t, "rs2", page.Results[2].ID)
}

func TestSearch_Idempotent(t *testing.T) {
	store := openStore(t, []seedVariant{
		{id: "rs1"}, {id: "rs2"}, {id: "rs3"},
	})

	first, err := store.Search(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)
	second, err := store.Search(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, first.Results, second.Results)
}

func TestSearch_OffsetBeyondTotal(t *testing.T) {
	store := openStore(t, []seedVariant{
		{id: "rs1"}, {id: "rs2"},
	})

	page, err := store.Search(context.Background(), domain.FilterCriteria{Offset: 50})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Equal(t, 2, page.Total)
}

func TestSearch_ChromosomePagination(t *testing.T) {
	rows := make([]seedVariant, 0, 30)
	for i := 0; i < 25; i++ {
		rows = append(rows, seedVariant{id: fmt.Sprintf("rs%d", i), chromosome: "1"})
	}
	for i := 25; i < 30; i++ {
		rows = append(rows, seedVariant{id: fmt.Sprintf("rs%d", i), chromosome: "2"})
	}
	store := openStore(t, rows)

	page, err := store.Search(context.Background(), domain.FilterCriteria{
		Chromosome: "1",
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Len(t, page.Results, 10)
	assert.Equal(t, 25, page.Total)

	// Total stays constant across pages of the same predicate.
	page2, err := store.Search(context.Background(), domain.FilterCriteria{
		Chromosome: "1",
		Limit:      10,
		Offset:     20,
	})
	require.NoError(t, err)
	assert.Len(t, page2.Results, 5)
	assert.Equal(t, 25, page2.Total)
}

func TestSearch_FreeTextAcrossColumns(t *testing.T) {
	store := openStore(t, []seedVariant{
		{id: "rs1", gene: "BRCA1"},
		{id: "rs2", condition: "Breast-ovarian cancer, familial"},
		{id: "rs3", geneAliases: "BRCC1;PPP1R53"},
		{id: "rs4", gene: "TP53"},
	})

	page, err := store.Search(context.Background(), domain.FilterCriteria{Query: "brca"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "rs1", page.Results[0].ID)

	// Containment in any searchable column qualifies the row.
	page, err = store.Search(context.Background(), domain.FilterCriteria{Query: "breast"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	page, err = store.Search(context.Background(), domain.FilterCriteria{Query: "rs"})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
}

func TestSearch_SignificanceContainment(t *testing.T) {
	store := openStore(t, []seedVariant{
		{id: "rs1", significance: "Pathogenic"},
		{id: "rs2", significance: "Pathogenic/Likely pathogenic"},
		{id: "rs3", significance: "Benign"},
	})

	page, err := store.Search(context.Background(), domain.FilterCriteria{Significance: "pathogenic"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestSearch_LikeMetacharactersMatchLiterally(t *testing.T) {
	store := openStore(t, []seedVariant{
		{id: "rs1", significance: "Pathogenic", condition: "Penetrance 50% by age 70"},
		{id: "rs2", significance: "Benign", condition: "Breast cancer"},
	})

	// '_' is not a single-character wildcard in user terms.
	page, err := store.Search(context.Background(), domain.FilterCriteria{Significance: "patho_enic"})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)

	// '%' matches only a literal percent sign.
	page, err = store.Search(context.Background(), domain.FilterCriteria{Condition: "50%"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "rs1", page.Results[0].ID)

	page, err = store.Search(context.Background(), domain.FilterCriteria{Condition: "0% by"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestSearch_CombinedFiltersAreConjunctive(t *testing.T) {
	store := openStore(t, []seedVariant{
		{id: "rs1", chromosome: "17", gene: "BRCA1", condition: "Breast cancer"},
		{id: "rs2", chromosome: "17", gene: "TP53", condition: "Li-Fraumeni syndrome"},
		{id: "rs3", chromosome: "13", gene: "BRCA2", condition: "Breast cancer"},
	})

	page, err := store.Search(context.Background(), domain.FilterCriteria{
		Chromosome: "17",
		Gene:       "BRCA",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "rs1", page.Results[0].ID)
}

func TestSearch_WhitespaceOnlyCriteriaIgnored(t *testing.T) {
	store := openStore(t, []seedVariant{
		{id: "rs1"}, {id: "rs2"},
	})

	page, err := store.Search(context.Background(), domain.FilterCriteria{
		Query:      "   ",
		Chromosome: "\t",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}
