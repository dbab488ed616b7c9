package materialize

import (
	"errors"
	"fmt"
)

// Sentinels matched by errors.Is against the typed errors below.
var (
	ErrResource         = errors.New("resource rejected by host")
	ErrMissingReference = errors.New("missing reference")
	ErrInvalidProperty  = errors.New("invalid property")
	ErrGraphConsistency = errors.New("inconsistent node graph")
)

// ResourceError reports that the host refused to create or update a resource.
type ResourceError struct {
	Name string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %q rejected by host: %v", e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

func (e *ResourceError) Is(target error) bool { return target == ErrResource }

// MissingReferenceError reports a lookup of something that should already
// have been materialized.
type MissingReferenceError struct {
	Kind string
	Ref  string
	Key  string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s %q not materialized (key %q)", e.Kind, e.Ref, e.Key)
}

func (e *MissingReferenceError) Is(target error) bool { return target == ErrMissingReference }

// InvalidPropertyError reports an unknown or type-mismatched property or
// socket on Target. Target and Property are empty when the value itself is
// unusable wherever it is set.
type InvalidPropertyError struct {
	Target   string
	Property string
	Err      error
}

func (e *InvalidPropertyError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("invalid property: %v", e.Err)
	}
	return fmt.Sprintf("invalid property %q on %s: %v", e.Property, e.Target, e.Err)
}

func (e *InvalidPropertyError) Unwrap() error { return e.Err }

func (e *InvalidPropertyError) Is(target error) bool { return target == ErrInvalidProperty }

// GraphConsistencyError reports a structurally invalid node list. NodeIndex
// is -1 when the problem is not tied to one node.
type GraphConsistencyError struct {
	NodeIndex int
	Reason    string
}

func (e *GraphConsistencyError) Error() string {
	if e.NodeIndex < 0 {
		return "invalid node graph: " + e.Reason
	}
	return fmt.Sprintf("invalid node graph at node %d: %s", e.NodeIndex, e.Reason)
}

func (e *GraphConsistencyError) Is(target error) bool { return target == ErrGraphConsistency }
