// Root command for the eavl CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/eavl-io/eavl/internal/paths"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
)

// configDataDir holds the data_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configDataDir string

// configStrictLinks holds the strict_link_types value from config.yaml.
var configStrictLinks bool

var rootCmd = &cobra.Command{
	Use:     "eavl",
	Short:   "eavl is a schema-flexible entity-attribute-value-link store",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDataDir = cfg.GetString(cfgKeyDataDir)
		configStrictLinks = cfg.GetBool(cfgKeyStrictLinkTypes)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.eavl)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.eavl-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(classCmd)
	rootCmd.AddCommand(attrCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(linkTypeCmd)
	rootCmd.AddCommand(findCmd)
}

// resolveDataDir returns the data directory with precedence:
// --data-dir flag > config.yaml data_dir > EAVL_DATA_DIR env > $(CWD)/.eavl-db.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory with precedence:
// --config-dir flag > EAVL_CONFIG_DIR env > $(CWD)/.eavl when present >
// platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
