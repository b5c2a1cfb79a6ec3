// Link commands manage typed directed edges between entities.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eavl-io/eavl/pkg/types"
)

var linkPosition int

var linkCmd = &cobra.Command{
	Use:   "link <from-id> <link-type> <to-id>",
	Short: "Create a directed link between two entities",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "link", err)
		}
		defer engine.Detach()

		var position *int
		if cmd.Flags().Changed("position") {
			position = &linkPosition
		}

		if err := engine.Link(args[0], args[1], args[2], position); err != nil {
			if errors.Is(err, types.ErrUnknownEntity) || errors.Is(err, types.ErrUnknownLinkType) {
				fail(exitUserError, "link", err)
			}
			fail(exitSysError, "link", err)
		}

		if !flagJSON {
			fmt.Printf("Linked %s -[%s]-> %s\n", args[0], args[1], args[2])
		}
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink <from-id> <link-type> <to-id>",
	Short: "Remove a directed link (idempotent)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "unlink", err)
		}
		defer engine.Detach()

		if err := engine.Unlink(args[0], args[1], args[2]); err != nil {
			fail(exitSysError, "unlink", err)
		}

		if !flagJSON {
			fmt.Printf("Unlinked %s -[%s]-> %s\n", args[0], args[1], args[2])
		}
		return nil
	},
}

var targetsCmd = &cobra.Command{
	Use:   "targets <from-id> <link-type>",
	Short: "List target entities of outgoing links",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "targets", err)
		}
		defer engine.Detach()

		ids, err := engine.Targets(cmd.Context(), args[0], args[1])
		if err != nil {
			if errors.Is(err, types.ErrUnknownEntity) {
				fail(exitUserError, "targets", err)
			}
			fail(exitSysError, "targets", err)
		}

		return printIDs(ids)
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources <to-id> <link-type>",
	Short: "List source entities of incoming links",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "sources", err)
		}
		defer engine.Detach()

		ids, err := engine.Sources(cmd.Context(), args[0], args[1])
		if err != nil {
			if errors.Is(err, types.ErrUnknownEntity) {
				fail(exitUserError, "sources", err)
			}
			fail(exitSysError, "sources", err)
		}

		return printIDs(ids)
	},
}

var linkTypeDescription string

var linkTypeCmd = &cobra.Command{
	Use:   "linktype",
	Short: "Manage the link type vocabulary",
}

var linkTypeDefineCmd = &cobra.Command{
	Use:   "define <name>",
	Short: "Register a link type name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "linktype define", err)
		}
		defer engine.Detach()

		if err := engine.DefineLinkType(args[0], linkTypeDescription); err != nil {
			if errors.Is(err, types.ErrInvalidName) {
				fail(exitUserError, "linktype define", err)
			}
			fail(exitSysError, "linktype define", err)
		}

		if !flagJSON {
			fmt.Println("Defined link type:", args[0])
		}
		return nil
	},
}

var linkTypeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered link type vocabulary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "linktype list", err)
		}
		defer engine.Detach()

		linkTypes, err := engine.ListLinkTypes()
		if err != nil {
			fail(exitSysError, "linktype list", err)
		}

		if flagJSON {
			return printJSON(linkTypes)
		}
		for _, lt := range linkTypes {
			if lt.Description != "" {
				fmt.Printf("%s  %s\n", lt.Name, lt.Description)
			} else {
				fmt.Println(lt.Name)
			}
		}
		return nil
	},
}

// printIDs writes a list of entity IDs, one per line, or as a JSON array.
func printIDs(ids []string) error {
	if flagJSON {
		return printJSON(ids)
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func init() {
	linkCmd.Flags().IntVar(&linkPosition, "position", 0, "ordering position within the link type")
	linkTypeDefineCmd.Flags().StringVar(&linkTypeDescription, "description", "", "link type description")

	linkTypeCmd.AddCommand(linkTypeDefineCmd)
	linkTypeCmd.AddCommand(linkTypeListCmd)
}
