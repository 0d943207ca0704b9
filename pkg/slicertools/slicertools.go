package slicertools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/A2B-Technology-Corporation/SlicerTools/pkg/slicerrpc"
)

// MRML class name of segmentation nodes
const segmentationNodeClass = "vtkMRMLSegmentationNode"

// Names of the three standard 2D slice views
var sliceViewNames = []string{"Red", "Yellow", "Green"}

// SlicerTools exposes scene graph operations of a running 3D Slicer
// instance to a tool-calling orchestrator. It holds exactly one bridge
// caller for its entire lifetime and keeps no other state; remote node
// handles are resolved fresh on every call and never cached.
type SlicerTools struct {
	root   *slicerrpc.Root
	logger zerolog.Logger
}

// New creates the facade around an established bridge caller. Construction
// performs no remote call; the connection lifecycle belongs to the caller.
func New(caller slicerrpc.Caller, logger zerolog.Logger) *SlicerTools {
	return &SlicerTools{
		root:   slicerrpc.NewRoot(caller),
		logger: logger,
	}
}

// GetNodeByClass returns all nodes in the scene of the specified class,
// one bulleted line per node, or a single line stating that none exist.
func (s *SlicerTools) GetNodeByClass(ctx context.Context, className string) (string, error) {
	tic := time.Now()

	nodes, err := s.root.NodesByClass(ctx, className)
	if err != nil {
		return "", err
	}

	info := make([]string, 0, len(nodes)+1)
	if len(nodes) > 0 {
		info = append(info, fmt.Sprintf("%s nodes:", className))
		for _, node := range nodes {
			info = append(info, fmt.Sprintf("- %s", node))
		}
	} else {
		info = append(info, fmt.Sprintf("No %s nodes found in scene", className))
	}

	s.logger.Info().Msgf("get_node_by_class executed in %.4f seconds", time.Since(tic).Seconds())
	return strings.Join(info, "\n"), nil
}

// GetVisibleSegments lists all currently visible segments in the given
// segmentation node, each with its display color as RGB channel values.
func (s *SlicerTools) GetVisibleSegments(ctx context.Context, segmentationNode string) (string, error) {
	tic := time.Now()

	node, err := s.root.Node(ctx, segmentationNode)
	if err != nil {
		return "", err
	}

	displayNode, err := node.CallObjectRef(ctx, "GetDisplayNode")
	if err != nil {
		return "", err
	}
	if displayNode == nil {
		return "", fmt.Errorf("node %s has no display node", segmentationNode)
	}

	segmentIDs, err := displayNode.CallStrings(ctx, "GetVisibleSegmentIDs")
	if err != nil {
		return "", err
	}

	segmentation, err := node.CallObjectRef(ctx, "GetSegmentation")
	if err != nil {
		return "", err
	}

	info := make([]string, 0, len(segmentIDs))
	for _, segmentID := range segmentIDs {
		segment, err := segmentation.CallObjectRef(ctx, "GetSegment", segmentID)
		if err != nil {
			return "", err
		}
		name, err := segment.CallString(ctx, "GetName")
		if err != nil {
			return "", err
		}
		color, err := segmentColor(ctx, displayNode, segmentID)
		if err != nil {
			return "", err
		}
		info = append(info, fmt.Sprintf("%s (Color: RGB(%.2f, %.2f, %.2f)", name, color[0], color[1], color[2]))
	}

	// An empty segment list still produces the full sentence
	result := fmt.Sprintf("The segmentation node %s contains the following visible segments: %s",
		segmentationNode, strings.Join(info, ","))

	s.logger.Info().Msgf("get_visible_segments executed in %.4f seconds", time.Since(tic).Seconds())
	return result, nil
}

// segmentColor returns a segment's display color as an RGB triple with
// channel values in [0,1].
func segmentColor(ctx context.Context, displayNode *slicerrpc.Object, segmentID string) ([3]float64, error) {
	var color [3]float64
	channels, err := displayNode.CallFloats(ctx, "GetSegmentColor", segmentID)
	if err != nil {
		return color, err
	}
	if len(channels) != 3 {
		return color, fmt.Errorf("GetSegmentColor: expected 3 channels, got %d", len(channels))
	}
	copy(color[:], channels)
	return color, nil
}

// segmentationAndDisplayNode resolves a segmentation node and its display
// node by node name. Exactly one node may match; the match must be a
// segmentation node and must have a display node.
func (s *SlicerTools) segmentationAndDisplayNode(ctx context.Context, name string) (*slicerrpc.Object, *slicerrpc.Object, error) {
	nodes, err := s.root.NodesByName(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if len(nodes) != 1 {
		return nil, nil, &ResolveError{Kind: ResolveCardinality, Name: name, Count: len(nodes)}
	}

	node := nodes[0]

	isSegmentation, err := node.CallBool(ctx, "IsA", segmentationNodeClass)
	if err != nil {
		return nil, nil, err
	}
	if !isSegmentation {
		class, err := node.CallString(ctx, "GetClassName")
		if err != nil {
			return nil, nil, err
		}
		return nil, nil, &ResolveError{Kind: ResolveTypeMismatch, Name: name, Class: class}
	}

	displayNode, err := node.CallObjectRef(ctx, "GetDisplayNode")
	if err != nil {
		return nil, nil, err
	}
	if displayNode == nil {
		return nil, nil, &ResolveError{Kind: ResolveMissingDisplay, Name: name}
	}

	return node, displayNode, nil
}

// SetAllSegmentsVisibility shows or hides every segment in the named
// segmentation node. The mutation runs inside a StartModify/EndModify
// bracket so observers receive one coalesced change notification.
func (s *SlicerTools) SetAllSegmentsVisibility(ctx context.Context, segmentationNodeName string, visible bool) (string, error) {
	tic := time.Now()

	_, displayNode, err := s.segmentationAndDisplayNode(ctx, segmentationNodeName)
	if err != nil {
		return "", err
	}

	wasModified, err := displayNode.CallInt(ctx, "StartModify")
	if err != nil {
		return "", err
	}
	if _, err := displayNode.Call(ctx, "SetAllSegmentsVisibility", visible); err != nil {
		return "", err
	}
	if _, err := displayNode.Call(ctx, "EndModify", wasModified); err != nil {
		return "", err
	}

	s.logger.Info().Msgf("set_all_segments_visibility executed in %.4f seconds", time.Since(tic).Seconds())
	return fmt.Sprintf("All segments in %s are now %s", segmentationNodeName, visibilityState(visible)), nil
}

// SetSegmentsVisibility shows or hides the named segments within a
// segmentation node and then centers all views. Segment names are resolved
// to segment IDs fresh on every call; a name that resolves to no segment
// yields the bridge's sentinel empty ID, which is passed through unchanged.
func (s *SlicerTools) SetSegmentsVisibility(ctx context.Context, segmentationNodeName string, segmentNames []string, visible bool) (string, error) {
	tic := time.Now()

	node, displayNode, err := s.segmentationAndDisplayNode(ctx, segmentationNodeName)
	if err != nil {
		return "", err
	}

	segmentation, err := node.CallObjectRef(ctx, "GetSegmentation")
	if err != nil {
		return "", err
	}

	wasModified, err := displayNode.CallInt(ctx, "StartModify")
	if err != nil {
		return "", err
	}
	for _, segmentName := range segmentNames {
		segmentID, err := segmentation.CallString(ctx, "GetSegmentIdBySegmentName", segmentName)
		if err != nil {
			return "", err
		}
		if _, err := displayNode.Call(ctx, "SetSegmentVisibility", segmentID, visible); err != nil {
			return "", err
		}
	}
	if _, err := displayNode.Call(ctx, "EndModify", wasModified); err != nil {
		return "", err
	}

	s.CenterView(ctx)

	s.logger.Info().Msgf("set_segments_visibility executed in %.4f seconds", time.Since(tic).Seconds())
	return fmt.Sprintf("Segments %s in %s are now %s",
		strings.Join(segmentNames, ", "), segmentationNodeName, visibilityState(visible)), nil
}

// CenterView centers all 2D slice views and the 3D view on the currently
// loaded data. Unlike every other operation this one is best-effort: any
// failure is reported inside the returned string, never raised.
func (s *SlicerTools) CenterView(ctx context.Context) string {
	tic := time.Now()

	if err := s.centerAllViews(ctx); err != nil {
		return fmt.Sprintf("Error centering views: %s", err)
	}

	s.logger.Info().Msgf("center_view executed in %.4f seconds", time.Since(tic).Seconds())
	return "Successfully centered all views"
}

func (s *SlicerTools) centerAllViews(ctx context.Context) error {
	layoutManager, err := s.root.LayoutManager(ctx)
	if err != nil {
		return err
	}

	threeDWidget, err := layoutManager.CallObjectRef(ctx, "threeDWidget", 0)
	if err != nil {
		return err
	}
	if threeDWidget != nil {
		threeDView, err := threeDWidget.CallObjectRef(ctx, "threeDView")
		if err != nil {
			return err
		}
		if threeDView == nil {
			return fmt.Errorf("3D widget has no view")
		}
		if _, err := threeDView.Call(ctx, "resetFocalPoint"); err != nil {
			return err
		}
	}

	for _, name := range sliceViewNames {
		sliceWidget, err := layoutManager.CallObjectRef(ctx, "sliceWidget", name)
		if err != nil {
			return err
		}
		if sliceWidget == nil {
			continue
		}
		sliceController, err := sliceWidget.CallObjectRef(ctx, "sliceController")
		if err != nil {
			return err
		}
		if sliceController == nil {
			return fmt.Errorf("slice widget %s has no controller", name)
		}
		if _, err := sliceController.Call(ctx, "fitSliceToBackground"); err != nil {
			return err
		}
	}

	return nil
}

func visibilityState(visible bool) string {
	if visible {
		return "visible"
	}
	return "hidden"
}
