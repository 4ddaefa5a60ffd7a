package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/TEGAR-SRC/yt-dw/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the default configuration",
	Long: `Dump the default configuration values in YAML format.

Redirect the output to a file to create a configuration template:

  yt-dw config dump > config.yaml

Configuration can be set via:
  - Config file (.yt-dw.yaml in $HOME, the working directory, or /etc/yt-dw)
  - Environment variables with the YTDW_ prefix (YTDW_SERVER_PORT, ...)
  - Command-line flags (for some options)

Environment variables use underscores for nesting.
Example: server.port -> YTDW_SERVER_PORT`,
	RunE: runConfigDump,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	v := viper.New()
	config.SetDefaults(v)

	out, err := yaml.Marshal(v.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling configuration: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
