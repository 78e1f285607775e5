package main

import (
	"os"

	"github.com/joeydtaylor/steeze-viewlet/pkg/serverfx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the manifest's pages over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// serverfx reads its settings from the process environment.
		if err := os.Setenv("APP_MANIFEST", viper.GetString("manifest")); err != nil {
			return err
		}
		if v := viper.GetString("listen"); v != "" {
			if err := os.Setenv("SERVER_LISTEN_ADDRESS", v); err != nil {
				return err
			}
		}
		if v := viper.GetString("admin_role"); v != "" {
			if err := os.Setenv("ADMIN_ROLE_NAME", v); err != nil {
				return err
			}
		}
		fx.New(
			serverfx.Module(
				serverfx.WithService("viewletd"),
				serverfx.WithCatalog(builtinCatalog()),
			),
		).Run()
		return nil
	},
}

func init() {
	serveCmd.Flags().StringP("listen", "l", "", "listen address (default :4000)")
	_ = viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}
