package main

import (
	"fmt"

	"css-tools/pkg/lib"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Compile readable, nested stylesheets into plain CSS",
	Long: appName + " compiles a nested CSS dialect with selector phrases (\"device mobile\",\n" +
		"\"when hovered\") and reusable blocks into flat, minified CSS.\n\n" +
		"Settings are read from ./" + localConfigName + " or ~/.config/" + appName + "/config.yml;\n" +
		"run `" + appName + " init` to create one.",
}

func main() {
	rootCmd.AddCommand(buildCmd, watchCmd, serveCmd, inspectCmd, replCmd, initCmd, selectorsCmd, exampleCmd)

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &lib.UsageError{Err: err}
	})

	if err := rootCmd.Execute(); err != nil {
		lib.Exit(err)
	}
}

func usageErrorf(format string, args ...any) error {
	return &lib.UsageError{Err: fmt.Errorf(format, args...)}
}
