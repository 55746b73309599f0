package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/digger/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config <gold|cleanup|tileset>",
	Short: "Print an embedded default config",
	Long: `Print the embedded default YAML so it can be copied and edited.

Files placed in ~/.digger/configs/ or ./configs/ override the defaults.

Examples:
  digger config gold > ~/.digger/configs/gold.yaml
  digger config tileset`,
	Args: cobra.ExactArgs(1),
	RunE: runConfig,
}

func runConfig(_ *cobra.Command, args []string) error {
	data := config.GetDefaultYAML(args[0])
	if data == nil {
		return fmt.Errorf("unknown config %q", args[0])
	}
	_, err := os.Stdout.Write(data)
	return err
}
