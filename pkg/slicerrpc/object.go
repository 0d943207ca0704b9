package slicerrpc

import (
	"context"
	"fmt"
)

// Caller issues calls against the Slicer bridge. Call invokes a method on
// the bridge root namespace; CallObject invokes a method on a remote object
// identified by its handle ID.
type Caller interface {
	Call(ctx context.Context, method string, params map[string]interface{}) (interface{}, error)
	CallObject(ctx context.Context, id string, method string, args []interface{}) (interface{}, error)
}

// Object is a proxy for a remote object living inside the Slicer process,
// such as a scene node or a view widget. Handles are only valid for the
// duration of a single tool operation and must not be cached across calls.
type Object struct {
	caller Caller
	id     string
	class  string
}

// NewObject creates a proxy for the remote object with the given handle ID.
func NewObject(caller Caller, id, class string) *Object {
	return &Object{caller: caller, id: id, class: class}
}

// ID returns the remote handle ID
func (o *Object) ID() string {
	return o.id
}

// Class returns the remote class name carried by the handle, if any
func (o *Object) Class() string {
	return o.class
}

// Call invokes a method on the remote object
func (o *Object) Call(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}
	return o.caller.CallObject(ctx, o.id, method, args)
}

// CallString invokes a method expected to return a string
func (o *Object) CallString(ctx context.Context, method string, args ...interface{}) (string, error) {
	result, err := o.Call(ctx, method, args...)
	if err != nil {
		return "", err
	}
	s, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string result, got %T", method, result)
	}
	return s, nil
}

// CallBool invokes a method expected to return a boolean
func (o *Object) CallBool(ctx context.Context, method string, args ...interface{}) (bool, error) {
	result, err := o.Call(ctx, method, args...)
	if err != nil {
		return false, err
	}
	switch v := result.(type) {
	case bool:
		return v, nil
	case float64:
		// VTK predicates report booleans as integers
		return v != 0, nil
	default:
		return false, fmt.Errorf("%s: expected boolean result, got %T", method, result)
	}
}

// CallInt invokes a method expected to return an integer
func (o *Object) CallInt(ctx context.Context, method string, args ...interface{}) (int, error) {
	result, err := o.Call(ctx, method, args...)
	if err != nil {
		return 0, err
	}
	f, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("%s: expected numeric result, got %T", method, result)
	}
	return int(f), nil
}

// CallFloats invokes a method expected to return a list of numbers
func (o *Object) CallFloats(ctx context.Context, method string, args ...interface{}) ([]float64, error) {
	result, err := o.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	list, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: expected list result, got %T", method, result)
	}
	floats := make([]float64, len(list))
	for i, elem := range list {
		f, ok := elem.(float64)
		if !ok {
			return nil, fmt.Errorf("%s: expected numeric element, got %T", method, elem)
		}
		floats[i] = f
	}
	return floats, nil
}

// CallStrings invokes a method expected to return a list of strings
func (o *Object) CallStrings(ctx context.Context, method string, args ...interface{}) ([]string, error) {
	result, err := o.Call(ctx, method, args...)
	if err != nil {
		return nil, err
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

// CallObjectRef invokes a method expected to return another remote object.
// A null result maps to a nil proxy, not an error; callers decide whether a
// missing companion object is acceptable.
func (o *Object) CallObjectRef(ctx context.Context, method string, args ...interface{}) (*Object, error) {
	result, err := o.Call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	obj, ok := result.(*Object)
	if !ok {
		return nil, fmt.Errorf("%s: expected object result, got %T", method, result)
	}
	return obj, nil
}
