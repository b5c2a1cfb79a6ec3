// Class commands manage the entity class catalog.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eavl-io/eavl/pkg/types"
)

var classVerboseName string

var classCmd = &cobra.Command{
	Use:   "class",
	Short: "Manage entity classes",
}

var classCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new entity class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "class create", err)
		}
		defer engine.Detach()

		classID, err := engine.CreateClass(args[0], classVerboseName)
		if err != nil {
			if errors.Is(err, types.ErrDuplicateClass) || errors.Is(err, types.ErrInvalidName) {
				fail(exitUserError, "class create", err)
			}
			fail(exitSysError, "class create", err)
		}

		if flagJSON {
			class, err := engine.GetClass(classID)
			if err != nil {
				fail(exitSysError, "class create", err)
			}
			return printJSON(class)
		}
		fmt.Println("Created class:", classID)
		return nil
	},
}

var classListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entity classes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "class list", err)
		}
		defer engine.Detach()

		classes, err := engine.ListClasses()
		if err != nil {
			fail(exitSysError, "class list", err)
		}

		if flagJSON {
			return printJSON(classes)
		}
		for _, c := range classes {
			fmt.Printf("%s  %s\n", c.ClassID, c.Name)
		}
		return nil
	},
}

var classDeleteCmd = &cobra.Command{
	Use:   "delete <class-id>",
	Short: "Delete an entity class and its attribute definitions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "class delete", err)
		}
		defer engine.Detach()

		if err := engine.DeleteClass(args[0]); err != nil {
			if errors.Is(err, types.ErrUnknownClass) || errors.Is(err, types.ErrClassInUse) {
				fail(exitUserError, "class delete", err)
			}
			fail(exitSysError, "class delete", err)
		}

		if !flagJSON {
			fmt.Println("Deleted class:", args[0])
		}
		return nil
	},
}

func init() {
	classCreateCmd.Flags().StringVar(&classVerboseName, "verbose-name", "", "human-readable class name")

	classCmd.AddCommand(classCreateCmd)
	classCmd.AddCommand(classListCmd)
	classCmd.AddCommand(classDeleteCmd)
}
