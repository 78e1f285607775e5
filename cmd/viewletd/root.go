package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "viewletd",
	Short:         "Serve and check viewlet manifests",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("manifest", "m", "manifest.toml",
		"manifest file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().String("admin-role", "",
		"role name that passes every role guard")
	_ = viper.BindPFlag("manifest", rootCmd.PersistentFlags().Lookup("manifest"))
	_ = viper.BindPFlag("admin_role", rootCmd.PersistentFlags().Lookup("admin-role"))

	rootCmd.AddCommand(serveCmd, validateCmd, renderCmd)
}

// initConfig lets VIEWLET_* environment variables stand in for flags.
func initConfig() {
	viper.SetEnvPrefix("VIEWLET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}
