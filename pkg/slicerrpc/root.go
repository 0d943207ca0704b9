package slicerrpc

import (
	"context"
	"fmt"
)

// Root namespace method names exposed by the Slicer bridge
const (
	MethodGetNodesByClass = "slicer_util_getNodesByClass"
	MethodGetNode         = "slicer_util_getNode"
	MethodGetNodesByName  = "slicer_mrmlScene_GetNodesByName"
	MethodLayoutManager   = "slicer_app_layoutManager"
)

// Root wraps the bridge root namespace with typed lookups over the MRML
// scene. It holds no state of its own; every lookup is resolved fresh
// against the live scene.
type Root struct {
	caller Caller
}

// NewRoot creates a root namespace wrapper around a bridge caller
func NewRoot(caller Caller) *Root {
	return &Root{caller: caller}
}

// NodesByClass returns the display names of all scene nodes of the given
// class. The class name is an opaque string; an unknown class simply yields
// an empty result.
func (r *Root) NodesByClass(ctx context.Context, className string) ([]string, error) {
	result, err := r.caller.Call(ctx, MethodGetNodesByClass, map[string]interface{}{
		"class_name": className,
	})
	if err != nil {
		return nil, err
	}
	return toStrings(MethodGetNodesByClass, result)
}

// Node resolves a single scene node by its node ID or name
func (r *Root) Node(ctx context.Context, nodeID string) (*Object, error) {
	result, err := r.caller.Call(ctx, MethodGetNode, map[string]interface{}{
		"node_id": nodeID,
	})
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, fmt.Errorf("%s: expected object result, got %T", MethodGetNode, result)
	}
	return obj, nil
}

// NodesByName returns every scene node whose name matches exactly
func (r *Root) NodesByName(ctx context.Context, name string) ([]*Object, error) {
	result, err := r.caller.Call(ctx, MethodGetNodesByName, map[string]interface{}{
		"name": name,
	})
	if err != nil {
		return nil, err
	}
	list, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: expected list result, got %T", MethodGetNodesByName, result)
	}
	nodes := make([]*Object, len(list))
	for i, elem := range list {
		obj, ok := elem.(*Object)
		if !ok {
			return nil, fmt.Errorf("%s: expected object element, got %T", MethodGetNodesByName, elem)
		}
		nodes[i] = obj
	}
	return nodes, nil
}

// LayoutManager returns the application layout manager
func (r *Root) LayoutManager(ctx context.Context) (*Object, error) {
	result, err := r.caller.Call(ctx, MethodLayoutManager, nil)
	if err != nil {
		return nil, err
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, fmt.Errorf("%s: expected object result, got %T", MethodLayoutManager, result)
	}
	return obj, nil
}

func toStrings(method string, result interface{}) ([]string, error) {
	if result == nil {
		return nil, nil
	}
	list, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: expected list result, got %T", method, result)
	}
	strs := make([]string, len(list))
	for i, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected string element, got %T", method, elem)
		}
		strs[i] = s
	}
	return strs, nil
}
