package types

// Comparison operators for attribute predicates. AND semantics only; OR and
// NOT are out of scope for the core engine.
const (
	OpEq       = "eq"
	OpLt       = "lt"
	OpLe       = "le"
	OpGt       = "gt"
	OpGe       = "ge"
	OpContains = "contains" // substring match, text attributes only
)

// Predicate compares one attribute of the queried class against a value.
type Predicate struct {
	Attribute string
	Op        string
	Value     any
}

// LinkPredicate keeps only entities with an edge of LinkType to ToID, or
// from FromID when ToID is empty. Exactly one of ToID and FromID is set.
type LinkPredicate struct {
	LinkType string
	ToID     string
	FromID   string
}

// Query describes a composite entity search over one class. Results ascend
// by entity ID unless SortBy names an attribute.
type Query struct {
	Where  []Predicate
	Linked []LinkPredicate
	SortBy string
	Limit  int
	Offset int
}

// Eq builds an equality predicate.
func Eq(attribute string, value any) Predicate {
	return Predicate{Attribute: attribute, Op: OpEq, Value: value}
}

// Range builds an inclusive range over two predicates. Either bound may be
// nil to leave that side open.
func Range(attribute string, min, max any) []Predicate {
	var ps []Predicate
	if min != nil {
		ps = append(ps, Predicate{Attribute: attribute, Op: OpGe, Value: min})
	}
	if max != nil {
		ps = append(ps, Predicate{Attribute: attribute, Op: OpLe, Value: max})
	}
	return ps
}

// Contains builds a substring predicate for text attributes.
func Contains(attribute, substring string) Predicate {
	return Predicate{Attribute: attribute, Op: OpContains, Value: substring}
}

// LinkedTo builds a link predicate on outgoing edges.
func LinkedTo(linkType, toID string) LinkPredicate {
	return LinkPredicate{LinkType: linkType, ToID: toID}
}

// LinkedFrom builds a link predicate on incoming edges.
func LinkedFrom(linkType, fromID string) LinkPredicate {
	return LinkPredicate{LinkType: linkType, FromID: fromID}
}

// validOps is the set of recognized predicate operators.
var validOps = map[string]bool{
	OpEq:       true,
	OpLt:       true,
	OpLe:       true,
	OpGt:       true,
	OpGe:       true,
	OpContains: true,
}

// IsValidOp reports whether op is a recognized predicate operator.
func IsValidOp(op string) bool {
	return validOps[op]
}
