package script

import (
	"strconv"

	"pdxmill/internal/pdxdate"
)

// ScalarKind classifies the payload of a scalar value.
type ScalarKind int

const (
	ScalarIdent ScalarKind = iota
	ScalarString
	ScalarNumber
	ScalarBool
	ScalarDate
)

// Scalar is a leaf value: an identifier, quoted string, number, boolean, or
// date. Raw preserves the source text; the typed fields are populated
// according to Kind.
type Scalar struct {
	Kind   ScalarKind
	Raw    string
	Str    string
	Num    float64
	Flag   bool
	Date   pdxdate.Date
	Line   int
	Column int
}

// newScalar classifies a scalar token. Identifiers yes/no become booleans,
// matching how script files spell flags.
func newScalar(t Token) *Scalar {
	s := &Scalar{Raw: t.Raw, Str: t.Text(), Line: t.Line, Column: t.Column}
	switch t.Kind {
	case TokenQuotedString:
		s.Kind = ScalarString
	case TokenNumber:
		s.Kind = ScalarNumber
		s.Num, _ = strconv.ParseFloat(t.Raw, 64)
	case TokenDate:
		s.Kind = ScalarDate
		s.Date = t.Date
	default:
		switch t.Raw {
		case "yes":
			s.Kind = ScalarBool
			s.Flag = true
		case "no":
			s.Kind = ScalarBool
		default:
			s.Kind = ScalarIdent
		}
	}
	return s
}

// Node is a generic parsed value: either a scalar leaf or a block of ordered
// entries. Blocks deliberately keep an entry sequence rather than a map:
// repeated keys and anonymous list items must survive in original order and
// multiplicity. Nodes are not mutated after Parse returns.
type Node struct {
	Scalar  *Scalar
	Entries []Entry
}

// Entry is one key-optional unit inside a block. Key is nil for anonymous
// list items.
type Entry struct {
	Key   *Scalar
	Value *Node
}

// IsBlock reports whether n is a block (possibly empty) rather than a scalar.
func (n *Node) IsBlock() bool { return n.Scalar == nil }

// Get returns the value of the first entry keyed k, or nil.
func (n *Node) Get(k string) *Node {
	for _, e := range n.Entries {
		if e.Key != nil && e.Key.Str == k {
			return e.Value
		}
	}
	return nil
}

// Has reports whether any entry is keyed k.
func (n *Node) Has(k string) bool { return n.Get(k) != nil }

// String returns the scalar's text value, or "" for blocks.
func (n *Node) String() string {
	if n.Scalar == nil {
		return ""
	}
	return n.Scalar.Str
}

// Float returns the scalar's numeric value and whether it is a number.
func (n *Node) Float() (float64, bool) {
	if n.Scalar == nil || n.Scalar.Kind != ScalarNumber {
		return 0, false
	}
	return n.Scalar.Num, true
}

// Bool returns the scalar's boolean value and whether it is a yes/no flag.
func (n *Node) Bool() (bool, bool) {
	if n.Scalar == nil || n.Scalar.Kind != ScalarBool {
		return false, false
	}
	return n.Scalar.Flag, true
}

// Date returns the scalar's date value and whether it is a date.
func (n *Node) Date() (pdxdate.Date, bool) {
	if n.Scalar == nil || n.Scalar.Kind != ScalarDate {
		return pdxdate.Date{}, false
	}
	return n.Scalar.Date, true
}

// Items returns the values of all anonymous entries, in order. This is how
// list-shaped blocks like tags={"X" "Y"} are consumed.
func (n *Node) Items() []*Node {
	var out []*Node
	for _, e := range n.Entries {
		if e.Key == nil {
			out = append(out, e.Value)
		}
	}
	return out
}
