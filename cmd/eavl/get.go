// Get command reads an entity's attribute bag, or one attribute.
package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/eavl-io/eavl/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <entity-id> [attribute]",
	Short: "Read an entity's attribute values",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "get", err)
		}
		defer engine.Detach()

		if len(args) == 2 {
			value, ok, err := engine.GetValue(args[0], args[1])
			if err != nil {
				if errors.Is(err, types.ErrUnknownEntity) {
					fail(exitUserError, "get", err)
				}
				fail(exitSysError, "get", err)
			}
			if !ok {
				// Unset attribute: empty output, success.
				if flagJSON {
					fmt.Println("null")
				}
				return nil
			}
			if flagJSON {
				return printJSON(value)
			}
			fmt.Println(formatValue(value))
			return nil
		}

		bag, err := engine.GetData(args[0])
		if err != nil {
			if errors.Is(err, types.ErrUnknownEntity) {
				fail(exitUserError, "get", err)
			}
			fail(exitSysError, "get", err)
		}

		if flagJSON {
			return printJSON(bag)
		}
		names := make([]string, 0, len(bag))
		for name := range bag {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s=%s\n", name, formatValue(bag[name]))
		}
		return nil
	},
}
