package condition

import "fmt"

// Kind identifies the operator of a condition node.
type Kind int

const (
	Equals Kind = iota + 1
	GreaterThan
	GreaterOrEqual
	LesserThan
	LesserOrEqual
	Like
	Between
	In
	And
	Or
	Not
)

var kindNames = map[Kind]string{
	Equals:         "EQUALS",
	GreaterThan:    "GREATER_THAN",
	GreaterOrEqual: "GREATER_OR_EQUAL",
	LesserThan:     "LESSER_THAN",
	LesserOrEqual:  "LESSER_OR_EQUAL",
	Like:           "LIKE",
	Between:        "BETWEEN",
	In:             "IN",
	And:            "AND",
	Or:             "OR",
	Not:            "NOT",
}

// String returns the upper-case operator name, e.g. "GREATER_THAN".
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsLeaf reports whether k compares a field against an operand.
func (k Kind) IsLeaf() bool {
	return k >= Equals && k <= In
}

// IsCompound reports whether k combines child conditions.
func (k Kind) IsCompound() bool {
	return k == And || k == Or || k == Not
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown condition kind %q", s)
}

// symbol renders leaf kinds the way String prints them.
func (k Kind) symbol() string {
	switch k {
	case Equals:
		return "="
	case GreaterThan:
		return ">"
	case GreaterOrEqual:
		return ">="
	case LesserThan:
		return "<"
	case LesserOrEqual:
		return "<="
	default:
		return k.String()
	}
}
