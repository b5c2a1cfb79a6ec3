// Delete command removes an entity, or one attribute value.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eavl-io/eavl/pkg/types"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <entity-id> [attribute]",
	Short: "Delete an entity, or one of its attribute values",
	Long: `Delete removes the entity with its values and links in one
transaction. With an attribute name, only that value is removed. Both forms
are idempotent.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "delete", err)
		}
		defer engine.Detach()

		if len(args) == 2 {
			if err := engine.DeleteValue(args[0], args[1]); err != nil {
				if errors.Is(err, types.ErrUnknownEntity) {
					fail(exitUserError, "delete", err)
				}
				fail(exitSysError, "delete", err)
			}
			if !flagJSON {
				fmt.Printf("Deleted %s from %s\n", args[1], args[0])
			}
			return nil
		}

		if err := engine.DeleteEntity(args[0]); err != nil {
			if errors.Is(err, types.ErrUnknownEntity) {
				fail(exitUserError, "delete", err)
			}
			fail(exitSysError, "delete", err)
		}
		if !flagJSON {
			fmt.Println("Deleted entity:", args[0])
		}
		return nil
	},
}
