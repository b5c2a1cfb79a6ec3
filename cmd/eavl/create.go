// Create command makes a new entity, optionally seeding attribute values.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eavl-io/eavl/pkg/types"
)

var createCmd = &cobra.Command{
	Use:   "create <class-id> [name=value…]",
	Short: "Create a new entity",
	Long: `Create makes a new entity of the given class. Trailing name=value
arguments seed attribute values; undefined attributes are defined on the fly
with the type inferred from the literal.

Example:
  eavl create <class-id>
  eavl create <class-id> color=red mileage=5000`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseKVArgs(args[1:])
		if err != nil {
			fail(exitUserError, "create", err)
		}

		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "create", err)
		}
		defer engine.Detach()

		entityID, err := engine.CreateEntity(args[0])
		if err != nil {
			if errors.Is(err, types.ErrUnknownClass) {
				fail(exitUserError, "create", err)
			}
			fail(exitSysError, "create", err)
		}

		if len(data) > 0 {
			if err := engine.SetData(entityID, data); err != nil {
				fail(exitUserError, "create", err)
			}
		}

		if flagJSON {
			entity, err := engine.GetEntity(entityID)
			if err != nil {
				fail(exitSysError, "create", err)
			}
			return printJSON(entity)
		}
		fmt.Println("Created entity:", entityID)
		return nil
	},
}
