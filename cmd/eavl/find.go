// Find command runs composite entity searches.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eavl-io/eavl/pkg/types"
)

var (
	findWhere      []string
	findLinkedTo   []string
	findLinkedFrom []string
	findSortBy     string
	findLimit      int
	findOffset     int
)

var findCmd = &cobra.Command{
	Use:   "find <class-id>",
	Short: "Find entities matching attribute and link predicates",
	Long: `Find returns IDs of entities of a class matching every predicate
(AND semantics). Attribute predicates support =, <, <=, >, >= and ~ for
substring match on text attributes.

Example:
  eavl find <class-id> --where color=red
  eavl find <class-id> --where 'mileage>=5000' --sort-by mileage --limit 10
  eavl find <class-id> --linked-to owns:<entity-id>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := types.Query{
			SortBy: findSortBy,
			Limit:  findLimit,
			Offset: findOffset,
		}

		for _, expr := range findWhere {
			p, err := parsePredicate(expr)
			if err != nil {
				fail(exitUserError, "find", err)
			}
			q.Where = append(q.Where, p)
		}
		for _, expr := range findLinkedTo {
			linkType, toID, err := parseLinkRef(expr)
			if err != nil {
				fail(exitUserError, "find", err)
			}
			q.Linked = append(q.Linked, types.LinkedTo(linkType, toID))
		}
		for _, expr := range findLinkedFrom {
			linkType, fromID, err := parseLinkRef(expr)
			if err != nil {
				fail(exitUserError, "find", err)
			}
			q.Linked = append(q.Linked, types.LinkedFrom(linkType, fromID))
		}

		engine, err := attachEngine()
		if err != nil {
			fail(exitSysError, "find", err)
		}
		defer engine.Detach()

		ids, err := engine.Find(cmd.Context(), args[0], q)
		if err != nil {
			if errors.Is(err, types.ErrUnknownClass) ||
				errors.Is(err, types.ErrUnknownAttribute) ||
				errors.Is(err, types.ErrTypeMismatch) {
				fail(exitUserError, "find", err)
			}
			fail(exitSysError, "find", err)
		}

		return printIDs(ids)
	},
}

// predicateOps maps the operator token in a --where expression to the query
// operator. Longer tokens first so <= does not parse as <.
var predicateOps = []struct {
	token string
	op    string
}{
	{"<=", types.OpLe},
	{">=", types.OpGe},
	{"<", types.OpLt},
	{">", types.OpGt},
	{"=", types.OpEq},
	{"~", types.OpContains},
}

// parsePredicate parses a --where expression like "color=red" or
// "mileage>=5000" into a predicate with a typed literal value.
func parsePredicate(expr string) (types.Predicate, error) {
	for _, candidate := range predicateOps {
		idx := strings.Index(expr, candidate.token)
		if idx <= 0 {
			continue
		}
		attribute := expr[:idx]
		raw := expr[idx+len(candidate.token):]
		return types.Predicate{
			Attribute: attribute,
			Op:        candidate.op,
			Value:     parseTypedLiteral(raw),
		}, nil
	}
	return types.Predicate{}, fmt.Errorf("malformed predicate %q, want attr<op>value", expr)
}

// parseLinkRef parses a link predicate reference "linktype:entity-id".
func parseLinkRef(expr string) (linkType, entityID string, err error) {
	linkType, entityID, ok := strings.Cut(expr, ":")
	if !ok || linkType == "" || entityID == "" {
		return "", "", fmt.Errorf("malformed link reference %q, want linktype:entity-id", expr)
	}
	return linkType, entityID, nil
}

func init() {
	findCmd.Flags().StringArrayVar(&findWhere, "where", nil, "attribute predicate, e.g. color=red or mileage>=5000 (repeatable)")
	findCmd.Flags().StringArrayVar(&findLinkedTo, "linked-to", nil, "outgoing link predicate linktype:entity-id (repeatable)")
	findCmd.Flags().StringArrayVar(&findLinkedFrom, "linked-from", nil, "incoming link predicate linktype:entity-id (repeatable)")
	findCmd.Flags().StringVar(&findSortBy, "sort-by", "", "sort results by this attribute")
	findCmd.Flags().IntVar(&findLimit, "limit", 0, "maximum number of results (0 = no limit)")
	findCmd.Flags().IntVar(&findOffset, "offset", 0, "number of results to skip")
}
