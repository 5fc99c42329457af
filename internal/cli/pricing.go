package cli

import (
	"fmt"

	"github.com/ogulcanaydogan/oaiusage/pkg/report"
	"github.com/spf13/cobra"
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "List the pricing table in model matching order",
	Long: `List the active pricing table. Model names are matched against the base
models top to bottom and the first prefix match wins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		table, err := initPricing(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Provider: %s (updated %s)\n", table.Provider(), table.Updated())
		return report.RenderPricing(out, table)
	},
}

func init() {
	rootCmd.AddCommand(pricingCmd)
}
