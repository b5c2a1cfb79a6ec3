// Attr commands manage attribute definitions.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eavl-io/eavl/pkg/types"
)

var attrRequired bool

var attrCmd = &cobra.Command{
	Use:   "attr",
	Short: "Manage attribute definitions",
}

var attrDefineCmd = &cobra.Command{
	Use:   "define <class-id> <name> <value-type>",
	Short: "Define an attribute for a class",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		classID, name, valueType := args[0], args[1], args[2]
		if !types.IsValidValueType(valueType) {
			fmt.Fprintf(os.Stderr, "attr define: invalid value type %q (valid: %s)\n",
				valueType, strings.Join(types.ValueTypes, ", "))
			os.Exit(exitUserError)
		}

		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "attr define", err)
		}
		defer engine.Detach()

		attributeID, err := engine.DefineAttribute(classID, name, valueType, attrRequired)
		if err != nil {
			if errors.Is(err, types.ErrUnknownClass) ||
				errors.Is(err, types.ErrDuplicateAttribute) ||
				errors.Is(err, types.ErrInvalidName) {
				fail(exitUserError, "attr define", err)
			}
			fail(exitSysError, "attr define", err)
		}

		if flagJSON {
			def, err := engine.ResolveAttribute(classID, name)
			if err != nil {
				fail(exitSysError, "attr define", err)
			}
			return printJSON(def)
		}
		fmt.Println("Defined attribute:", attributeID)
		return nil
	},
}

var attrListCmd = &cobra.Command{
	Use:   "list <class-id>",
	Short: "List attribute definitions for a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "attr list", err)
		}
		defer engine.Detach()

		defs, err := engine.ListAttributes(args[0])
		if err != nil {
			if errors.Is(err, types.ErrUnknownClass) {
				fail(exitUserError, "attr list", err)
			}
			fail(exitSysError, "attr list", err)
		}

		if flagJSON {
			return printJSON(defs)
		}
		for _, def := range defs {
			required := ""
			if def.Required {
				required = "  required"
			}
			fmt.Printf("%s  %s  %s%s\n", def.AttributeID, def.Name, def.ValueType, required)
		}
		return nil
	},
}

func init() {
	attrDefineCmd.Flags().BoolVar(&attrRequired, "required", false, "mark the attribute as required")

	attrCmd.AddCommand(attrDefineCmd)
	attrCmd.AddCommand(attrListCmd)
}
