package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/providers"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/ui"
)

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List providers and their capabilities",
	Long: `List every provider with its supported themes, whether it can filter
by rating server-side, and any rating caveats.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.ProvidersTable(buildRegistry().Rows()))
		return nil
	},
}

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List provider-to-theme mappings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.CategoriesTable(buildRegistry().CategoryMappings()))
		return nil
	},
}

func buildRegistry() *providers.Registry {
	log := logger.GetLogger()
	client := providers.NewClient(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, log)
	return providers.NewRegistry(client, cfg, credManager, log)
}

func init() {
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(categoriesCmd)
}
