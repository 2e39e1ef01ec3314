package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/varsearch-cli/internal/core/domain"
)

var (
	matchURL  string
	matchJSON bool
)

var matchCmd = &cobra.Command{
	Use:   "match [raw-file]",
	Short: "Match a raw genotype file against the dataset",
	Long: `Loads the variant dataset, reads a tab-separated raw genotype export
(rsid, chromosome, position, genotype per line) and reports every
variant with an annotation record in the dataset.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchURL, "url", "", "dataset URL (overrides configured default)")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output matches as JSON")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if engineService == nil {
		return errors.New("engine service not configured")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening raw genotype file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	variants, err := parseRawFile(f)
	if err != nil {
		return err
	}

	ctx := context.Background()

	url, err := datasetURL(matchURL)
	if err != nil {
		return err
	}
	if err := loadDataset(ctx, cmd, url); err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	lastProcessed := -1
	matches, err := engineService.MatchAll(ctx, variants, func(processed, total int) {
		if processed > lastProcessed {
			cmd.Printf("\rMatching... %d/%d", processed, total)
			lastProcessed = processed
		}
	})
	if lastProcessed >= 0 {
		cmd.Println()
	}
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	if matchJSON {
		return outputMatchJSON(cmd, matches)
	}
	return outputMatchTable(cmd, matches)
}

func outputMatchJSON(cmd *cobra.Command, matches []domain.Match) error {
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputMatchTable(cmd *cobra.Command, matches []domain.Match) error {
	if len(matches) == 0 {
		cmd.Println("No matches found.")
		return nil
	}

	cmd.Printf("Matched %d variants:\n", len(matches))
	cmd.Println()
	for i := range matches {
		record := &matches[i].Record
		cmd.Printf("  %s (%s)\n", record.ID, matches[i].Input.Genotype)
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
