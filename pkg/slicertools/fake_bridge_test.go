package slicertools

import (
	"context"
	"fmt"
	"strings"

	"github.com/A2B-Technology-Corporation/SlicerTools/pkg/slicerrpc"
)

// fakeSceneNode is a scene node held by the fake bridge.
type fakeSceneNode struct {
	class      string
	hasDisplay bool
}

// fakeBridge is an in-memory stand-in for the Slicer bridge. It dispatches
// root namespace calls and remote object calls against a small scripted
// scene and records every mutation so tests can assert on the exact call
// sequence the facade issued.
type fakeBridge struct {
	nodesByClass map[string][]string
	nodesByName  map[string][]fakeSceneNode

	visibleSegmentIDs []string
	segmentNames      map[string]string
	segmentColors     map[string][]float64
	idBySegmentName   map[string]string

	noThreeDWidget          bool
	noThreeDView            bool
	missingSliceWidgets     map[string]bool
	missingSliceControllers map[string]bool

	failMethod string
	failErr    error

	startModifyCalls     int
	endModifyArgs        []interface{}
	setAllVisibilityArgs []interface{}
	setSegmentCalls      [][2]interface{}
	resetFocalPointCalls int
	fitSliceCalls        []string
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		nodesByClass:            map[string][]string{},
		nodesByName:             map[string][]fakeSceneNode{},
		segmentNames:            map[string]string{},
		segmentColors:           map[string][]float64{},
		idBySegmentName:         map[string]string{},
		missingSliceWidgets:     map[string]bool{},
		missingSliceControllers: map[string]bool{},
	}
}

func (b *fakeBridge) object(id, class string) *slicerrpc.Object {
	return slicerrpc.NewObject(b, id, class)
}

func (b *fakeBridge) Call(ctx context.Context, method string, params map[string]interface{}) (interface{}, error) {
	if method == b.failMethod {
		return nil, b.failErr
	}

	switch method {
	case slicerrpc.MethodGetNodesByClass:
		names := b.nodesByClass[params["class_name"].(string)]
		list := make([]interface{}, len(names))
		for i, name := range names {
			list[i] = name
		}
		return list, nil

	case slicerrpc.MethodGetNode:
		name := params["node_id"].(string)
		nodes, ok := b.nodesByName[name]
		if !ok || len(nodes) == 0 {
			return nil, fmt.Errorf("node %q not found", name)
		}
		return b.object("node:"+name+":0", nodes[0].class), nil

	case slicerrpc.MethodGetNodesByName:
		name := params["name"].(string)
		nodes := b.nodesByName[name]
		list := make([]interface{}, len(nodes))
		for i, node := range nodes {
			list[i] = b.object(fmt.Sprintf("node:%s:%d", name, i), node.class)
		}
		return list, nil

	case slicerrpc.MethodLayoutManager:
		return b.object("layout", "qSlicerLayoutManager"), nil
	}

	return nil, fmt.Errorf("unexpected root call %q", method)
}

func (b *fakeBridge) CallObject(ctx context.Context, id string, method string, args []interface{}) (interface{}, error) {
	if method == b.failMethod {
		return nil, b.failErr
	}

	switch method {
	case "GetDisplayNode":
		if node, ok := b.lookupNode(id); ok && !node.hasDisplay {
			return nil, nil
		}
		return b.object("display:"+id, "vtkMRMLSegmentationDisplayNode"), nil

	case "GetVisibleSegmentIDs":
		list := make([]interface{}, len(b.visibleSegmentIDs))
		for i, segmentID := range b.visibleSegmentIDs {
			list[i] = segmentID
		}
		return list, nil

	case "GetSegmentation":
		return b.object("segmentation:"+id, "vtkSegmentation"), nil

	case "GetSegment":
		return b.object("segment:"+args[0].(string), "vtkSegment"), nil

	case "GetName":
		segmentID := strings.TrimPrefix(id, "segment:")
		return b.segmentNames[segmentID], nil

	case "GetSegmentColor":
		channels := b.segmentColors[args[0].(string)]
		list := make([]interface{}, len(channels))
		for i, channel := range channels {
			list[i] = channel
		}
		return list, nil

	case "IsA":
		node, ok := b.lookupNode(id)
		if !ok {
			return float64(0), nil
		}
		// VTK reports predicates as integers
		if node.class == args[0].(string) {
			return float64(1), nil
		}
		return float64(0), nil

	case "GetClassName":
		node, _ := b.lookupNode(id)
		return node.class, nil

	case "StartModify":
		b.startModifyCalls++
		return float64(7), nil

	case "EndModify":
		b.endModifyArgs = append(b.endModifyArgs, args[0])
		return nil, nil

	case "SetAllSegmentsVisibility":
		b.setAllVisibilityArgs = append(b.setAllVisibilityArgs, args[0])
		return nil, nil

	case "GetSegmentIdBySegmentName":
		return b.idBySegmentName[args[0].(string)], nil

	case "SetSegmentVisibility":
		b.setSegmentCalls = append(b.setSegmentCalls, [2]interface{}{args[0], args[1]})
		return nil, nil

	case "threeDWidget":
		if b.noThreeDWidget {
			return nil, nil
		}
		return b.object("threeDWidget:0", "qMRMLThreeDWidget"), nil

	case "threeDView":
		if b.noThreeDView {
			return nil, nil
		}
		return b.object("threeDView:0", "qMRMLThreeDView"), nil

	case "resetFocalPoint":
		b.resetFocalPointCalls++
		return nil, nil

	case "sliceWidget":
		name := args[0].(string)
		if b.missingSliceWidgets[name] {
			return nil, nil
		}
		return b.object("sliceWidget:"+name, "qMRMLSliceWidget"), nil

	case "sliceController":
		name := strings.TrimPrefix(id, "sliceWidget:")
		if b.missingSliceControllers[name] {
			return nil, nil
		}
		return b.object("sliceController:"+name, "qMRMLSliceControllerWidget"), nil

	case "fitSliceToBackground":
		b.fitSliceCalls = append(b.fitSliceCalls, strings.TrimPrefix(id, "sliceController:"))
		return nil, nil
	}

	return nil, fmt.Errorf("unexpected object call %q on %q", method, id)
}

// lookupNode resolves a node handle ID of the form node:<name>:<index>
// back to its scripted scene node.
func (b *fakeBridge) lookupNode(id string) (fakeSceneNode, bool) {
	id = strings.TrimPrefix(id, "display:")
	if !strings.HasPrefix(id, "node:") {
		return fakeSceneNode{}, false
	}
	parts := strings.Split(id, ":")
	if len(parts) != 3 {
		return fakeSceneNode{}, false
	}
	nodes := b.nodesByName[parts[1]]
	for i := range nodes {
		if fmt.Sprintf("%d", i) == parts[2] {
			return nodes[i], true
		}
	}
	return fakeSceneNode{}, false
}
