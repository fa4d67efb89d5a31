package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abhisek/wikiquiz/internal/llm"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model ids accepted in job specs",
	Run: func(cmd *cobra.Command, args []string) {
		models := llm.KnownModels()
		sort.Strings(models)
		for _, m := range models {
			fmt.Println(m)
		}
	},
}
