// Init command creates the configuration and data directories.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the eavl configuration and data directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			fail(exitSysError, "init", err)
		}

		// Attach once to create the data directory and empty store.
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "init", err)
		}
		if err := engine.Detach(); err != nil {
			fail(exitSysError, "init", err)
		}

		dataDir, err := resolveDataDir()
		if err != nil {
			fail(exitSysError, "init", err)
		}

		if flagJSON {
			return printJSON(map[string]string{
				"config_dir": configDir,
				"data_dir":   dataDir,
			})
		}
		fmt.Println("Initialized eavl")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", dataDir)
		return nil
	},
}
