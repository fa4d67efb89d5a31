package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abhisek/wikiquiz/internal/config"
	"github.com/abhisek/wikiquiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats <source-id>",
	Short: "Show ledger coverage for a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer st.Close()

		stats, err := st.Ledger(store.LedgerOptions{}).Stats(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Source: %s\n", stats.SourceID)
		fmt.Printf("Units processed: %d\n", stats.TotalDone)
		if stats.LastProcessedAt != nil {
			fmt.Printf("Last processed: %s\n", stats.LastProcessedAt.Format("2006-01-02 15:04:05 MST"))
		}
		if len(stats.ByGroup) > 0 {
			fmt.Println("By group:")
			groups := make([]string, 0, len(stats.ByGroup))
			for g := range stats.ByGroup {
				groups = append(groups, g)
			}
			sort.Strings(groups)
			for _, g := range groups {
				fmt.Printf("  %-30s %d\n", g, stats.ByGroup[g])
			}
		}
		return nil
	},
}
