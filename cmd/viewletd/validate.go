package main

import (
	"fmt"

	"github.com/joeydtaylor/steeze-viewlet/pkg/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the manifest and apply it to fresh registries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := viper.GetString("manifest")
		cfg, err := core.LoadConfig(path)
		if err != nil {
			return err
		}
		if _, err := core.NewRuntime(builtinCatalog(), cfg, core.Options{}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d regions, %d viewlets, %d pages)\n",
			path, len(cfg.Regions), len(cfg.Viewlets), len(cfg.Pages))
		return nil
	},
}
