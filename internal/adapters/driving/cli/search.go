package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/varsearch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
)

var (
	searchURL          string
	searchChromosome   string
	searchGene         string
	searchSignificance string
	searchCondition    string
	searchLimit        int
	searchOffset       int
	searchJSON         bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the variant dataset",
	Long: `Runs a filtered search over the loaded dataset. The optional query
term matches variant IDs, genes, conditions and significance; the
flags narrow the result set further. All filters are combined.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchURL, "url", "", "dataset URL (overrides configured default)")
	searchCmd.Flags().StringVar(&searchChromosome, "chromosome", "", "exact chromosome, e.g. 17 or X")
	searchCmd.Flags().StringVar(&searchGene, "gene", "", "gene symbol or alias substring")
	searchCmd.Flags().StringVar(&searchSignificance, "significance", "", "clinical significance substring")
	searchCmd.Flags().StringVar(&searchCondition, "condition", "", "condition substring")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultPageSize, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if engineService == nil {
		return errors.New("engine service not configured")
	}

	ctx := context.Background()

	url, err := datasetURL(searchURL)
	if err != nil {
		return err
	}
	if err := loadDataset(ctx, cmd, url); err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	criteria := domain.FilterCriteria{
		Chromosome:   searchChromosome,
		Gene:         searchGene,
		Significance: searchSignificance,
		Condition:    searchCondition,
		Limit:        searchLimit,
		Offset:       searchOffset,
	}
	if len(args) > 0 {
		criteria.Query = args[0]
	}
	if criteria.Limit == domain.DefaultPageSize && configStore != nil {
		if size := configStore.GetInt(configfile.KeyPageSize); size > 0 {
			criteria.Limit = size
		}
	}

	page, err := engineService.Search(ctx, criteria)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, page)
	}
	return outputSearchTable(cmd, page)
}

func outputSearchJSON(cmd *cobra.Command, page *domain.SearchPage) error {
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, page *domain.SearchPage) error {
	if len(page.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d of %d):\n", len(page.Results), page.Total)
	cmd.Println()
	for i := range page.Results {
		record := &page.Results[i]
		cmd.Printf("  [%d] %s\n", i+1, record.ID)
		if record.Chromosome != nil && record.Position != nil {
			cmd.Printf("      Location: chr%s:%d\n", *record.Chromosome, *record.Position)
		}
		if record.Gene != nil {
			cmd.Printf("      Gene: %s\n", *record.Gene)
		}
		if record.Significance != nil {
			cmd.Printf("      Significance: %s\n", *record.Significance)
		}
		if record.Condition != nil {
			cmd.Printf("      Condition: %s\n", *record.Condition)
		}
		cmd.Println()
	}
	return nil
}
