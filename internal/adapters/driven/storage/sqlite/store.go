package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
	"github.com/custodia-labs/varsearch-cli/internal/core/ports/driven"
)

// maxBindParams is the portable SQLITE_MAX_VARIABLE_NUMBER floor.
// Builds of SQLite differ in their actual ceiling; 999 is the lowest
// value shipped anywhere, so batch sizes derived from it are safe on
// every engine build.
const maxBindParams = 999

// selectColumns lists every variants column in scan order.
const selectColumns = `id, chromosome, position, assembly, cytogenetic,
	reference_allele, alternate_allele, variant_type,
	gene, gene_aliases, transcript, consequence,
	significance, review_status, condition, phenotype_ids, origin, molecular_consequence,
	hgvs_coding, hgvs_protein, accession, allele_id,
	gnomad_frequency, thousand_genomes_frequency,
	dbsnp_build, submitter_count, last_evaluated, record_url`

// Ensure Store implements the interface.
var _ driven.VariantStore = (*Store)(nil)

// Store is a read-only SQLite engine over a materialised dataset image.
type Store struct {
	db  *sql.DB
	dir string
}

// Open materialises a dataset image into a temp file and opens it
// read-only. The image is validated by probing the variants table; on
// any failure no store handle escapes and the temp file is removed.
func Open(data []byte) (*Store, error) {
	dir, err := os.MkdirTemp("", "varsearch-*")
	if err != nil {
		return nil, fmt.Errorf("creating dataset directory: %w", err)
	}

	dbPath := filepath.Join(dir, "dataset.db")
	if err := os.WriteFile(dbPath, data, 0600); err != nil {
		os.RemoveAll(dir) //nolint:errcheck
		return nil, fmt.Errorf("writing dataset image: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro&immutable=1")
	if err != nil {
		os.RemoveAll(dir) //nolint:errcheck
		return nil, fmt.Errorf("opening dataset: %w", err)
	}

	// The image is opaque until proven to hold a variants table.
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM variants").Scan(&n); err != nil {
		db.Close()        //nolint:errcheck
		os.RemoveAll(dir) //nolint:errcheck
		return nil, fmt.Errorf("validating dataset image: %w", err)
	}

	return &Store{db: db, dir: dir}, nil
}

// OpenStore adapts Open to the driven.StoreOpener signature.
func OpenStore(data []byte) (driven.VariantStore, error) {
	return Open(data)
}

// Close closes the database and removes the materialised image.
func (s *Store) Close() error {
	err := s.db.Close()
	if rmErr := os.RemoveAll(s.dir); err == nil {
		err = rmErr
	}
	return err
}

// MaxBindParams returns the engine's bound-parameter ceiling.
func (s *Store) MaxBindParams() int {
	return maxBindParams
}

// Count returns the total number of records in the dataset.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM variants").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting variants: %w (%v)", domain.ErrQueryFailed, err)
	}
	return n, nil
}

// LookupBatch returns all records whose lowercased ID is in ids.
// ids must already be lowercased and fit under the bind-parameter
// ceiling; one placeholder is bound per id.
func (s *Store) LookupBatch(ctx context.Context, ids []string) ([]domain.VariantRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) >= maxBindParams {
		return nil, fmt.Errorf("%w: %d ids exceed the bind-parameter ceiling", domain.ErrInvalidInput, len(ids))
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM variants WHERE lower(id) IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("querying variant batch: %w (%v)", domain.ErrQueryFailed, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Search executes the count query and the paginated select over one
// shared predicate built from criteria. The limit and offset bind
// last, after all filter parameters.
func (s *Store) Search(ctx context.Context, criteria domain.FilterCriteria) (*domain.SearchPage, error) {
	criteria = criteria.Normalized()
	where, args := whereSQL(buildClauses(criteria))

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM variants"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting filtered variants: %w (%v)", domain.ErrQueryFailed, err)
	}

	pageArgs := make([]any, 0, len(args)+2)
	pageArgs = append(pageArgs, args...)
	pageArgs = append(pageArgs, criteria.Limit, criteria.Offset)

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM variants"+where+" ORDER BY rowid LIMIT ? OFFSET ?", pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("querying filtered variants: %w (%v)", domain.ErrQueryFailed, err)
	}
	defer rows.Close()

	results, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.VariantRecord{}
	}

	return &domain.SearchPage{Results: results, Total: total}, nil
}

// scanRecords scans all remaining rows into variant records.
func scanRecords(rows *sql.Rows) ([]domain.VariantRecord, error) {
	var records []domain.VariantRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating variants: %w (%v)", domain.ErrQueryFailed, err)
	}

	return records, nil
}

// scanRecord scans one variants row. Every column except id is
// nullable and scanned through the corresponding sql.Null type.
func scanRecord(rows *sql.Rows) (*domain.VariantRecord, error) {
	var record domain.VariantRecord
	var chromosome, assembly, cytogenetic sql.NullString
	var referenceAllele, alternateAllele, variantType sql.NullString
	var gene, geneAliases, transcript, consequence sql.NullString
	var significance, reviewStatus, condition sql.NullString
	var phenotypeIDs, origin, molecularConsequence sql.NullString
	var hgvsCoding, hgvsProtein, accession sql.NullString
	var lastEvaluated, recordURL sql.NullString
	var position, alleleID, dbsnpBuild, submitterCount sql.NullInt64
	var gnomadFrequency, thousandGenomesFrequency sql.NullFloat64

	if err := rows.Scan(&record.ID, &chromosome, &position, &assembly, &cytogenetic,
		&referenceAllele, &alternateAllele, &variantType,
		&gene, &geneAliases, &transcript, &consequence,
		&significance, &reviewStatus, &condition, &phenotypeIDs, &origin, &molecularConsequence,
		&hgvsCoding, &hgvsProtein, &accession, &alleleID,
		&gnomadFrequency, &thousandGenomesFrequency,
		&dbsnpBuild, &submitterCount, &lastEvaluated, &recordURL); err != nil {
		return nil, fmt.Errorf("scanning variant: %w", err)
	}

	record.Chromosome = strPtr(chromosome)
	record.Position = intPtr(position)
	record.Assembly = strPtr(assembly)
	record.Cytogenetic = strPtr(cytogenetic)
	record.ReferenceAllele = strPtr(referenceAllele)
	record.AlternateAllele = strPtr(alternateAllele)
	record.VariantType = strPtr(variantType)
	record.Gene = strPtr(gene)
	record.GeneAliases = strPtr(geneAliases)
	record.Transcript = strPtr(transcript)
	record.Consequence = strPtr(consequence)
	record.Significance = strPtr(significance)
	record.ReviewStatus = strPtr(reviewStatus)
	record.Condition = strPtr(condition)
	record.PhenotypeIDs = strPtr(phenotypeIDs)
	record.Origin = strPtr(origin)
	record.MolecularConsequence = strPtr(molecularConsequence)
	record.HGVSCoding = strPtr(hgvsCoding)
	record.HGVSProtein = strPtr(hgvsProtein)
	record.Accession = strPtr(accession)
	record.AlleleID = intPtr(alleleID)
	record.GnomadFrequency = floatPtr(gnomadFrequency)
	record.ThousandGenomesFrequency = floatPtr(thousandGenomesFrequency)
	record.DBSNPBuild = intPtr(dbsnpBuild)
	record.SubmitterCount = intPtr(submitterCount)
	record.LastEvaluated = strPtr(lastEvaluated)
	record.RecordURL = strPtr(recordURL)

	return &record, nil
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
