package slicertools

import "fmt"

// ResolveErrorKind tags the ways a segmentation node lookup can fail
type ResolveErrorKind string

const (
	// ResolveCardinality means the name matched zero or more than one node
	ResolveCardinality ResolveErrorKind = "cardinality"
	// ResolveTypeMismatch means the matched node is not a segmentation node
	ResolveTypeMismatch ResolveErrorKind = "type_mismatch"
	// ResolveMissingDisplay means the node has no associated display node
	ResolveMissingDisplay ResolveErrorKind = "missing_display"
)

// ResolveError reports a failed segmentation node resolution with structured
// fields so callers can branch on the failure kind instead of parsing text.
type ResolveError struct {
	Kind  ResolveErrorKind
	Name  string // attempted node name
	Count int    // matched node count, for cardinality failures
	Class string // actual node class, for type mismatch failures
}

// Error implements the error interface
func (e *ResolveError) Error() string {
	switch e.Kind {
	case ResolveCardinality:
		return fmt.Sprintf("Expected exactly one node named '%s', found %d", e.Name, e.Count)
	case ResolveTypeMismatch:
		return fmt.Sprintf("Node '%s' is not a segmentation node. Found: %s", e.Name, e.Class)
	case ResolveMissingDisplay:
		return fmt.Sprintf("Segmentation node '%s' has no display node", e.Name)
	default:
		return fmt.Sprintf("failed to resolve segmentation node '%s'", e.Name)
	}
}
