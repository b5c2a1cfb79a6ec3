// Set command writes attribute values on an entity.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eavl-io/eavl/pkg/types"
)

var setCmd = &cobra.Command{
	Use:   "set <entity-id> name=value…",
	Short: "Set attribute values on an entity",
	Long: `Set writes one or more attribute values in a single transaction.
Values parse as the most specific literal: boolean, integer, float, RFC3339
timestamp, then text. Surround a value with single quotes to force text.

Example:
  eavl set <entity-id> color=red mileage=5000
  eavl set <entity-id> bought=2024-05-01T10:00:00Z used='true'`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseKVArgs(args[1:])
		if err != nil {
			fail(exitUserError, "set", err)
		}

		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "set", err)
		}
		defer engine.Detach()

		if err := engine.SetData(args[0], data); err != nil {
			if errors.Is(err, types.ErrUnknownEntity) || errors.Is(err, types.ErrTypeMismatch) {
				fail(exitUserError, "set", err)
			}
			fail(exitSysError, "set", err)
		}

		if flagJSON {
			bag, err := engine.GetData(args[0])
			if err != nil {
				fail(exitSysError, "set", err)
			}
			return printJSON(bag)
		}
		fmt.Fprintf(os.Stdout, "Set %d value(s) on %s\n", len(data), args[0])
		return nil
	},
}
