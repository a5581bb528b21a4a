// Package integrity checks a live scene against the structural invariants
// the model is supposed to maintain: flat-index/tree agreement, symmetric
// connections, and containment-scoped links. A healthy scene produces no
// violations; any finding indicates a bug in the caller or in the model
// itself.
package integrity

import "fmt"

// ViolationType categorizes the kind of invariant breach
type ViolationType int

const (
	IndexMissing ViolationType = iota
	IndexStale
	IDIndexMismatch
	ParentMismatch
	AsymmetricLink
	CrossScopeLink
	SameDirectionLink
	SelfLink
)

func (vt ViolationType) String() string {
	switch vt {
	case IndexMissing:
		return "IndexMissing"
	case IndexStale:
		return "IndexStale"
	case IDIndexMismatch:
		return "IDIndexMismatch"
	case ParentMismatch:
		return "ParentMismatch"
	case AsymmetricLink:
		return "AsymmetricLink"
	case CrossScopeLink:
		return "CrossScopeLink"
	case SameDirectionLink:
		return "SameDirectionLink"
	case SelfLink:
		return "SelfLink"
	default:
		return "Unknown"
	}
}

// Violation is one invariant breach found in a scene
type Violation struct {
	Kind    ViolationType
	Node    string
	Port    string
	Message string
}

func (v Violation) String() string {
	if v.Port != "" {
		return fmt.Sprintf("%s: node %q port %q: %s", v.Kind, v.Node, v.Port, v.Message)
	}
	return fmt.Sprintf("%s: node %q: %s", v.Kind, v.Node, v.Message)
}
