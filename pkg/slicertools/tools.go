package slicertools

import (
	"context"
	"fmt"

	"github.com/A2B-Technology-Corporation/SlicerTools/pkg/toolexecutor"
)

// RegisterSlicerTools registers all Slicer tools with the tool executor
func RegisterSlicerTools(executor *toolexecutor.ToolExecutor, slicer *SlicerTools) error {
	tools := []toolexecutor.ToolDefinition{
		createGetNodeByClassTool(slicer),
		createGetVisibleSegmentsTool(slicer),
		createSetAllSegmentsVisibilityTool(slicer),
		createSetSegmentsVisibilityTool(slicer),
		createCenterViewTool(slicer),
	}

	for _, tool := range tools {
		if err := executor.RegisterTool(tool); err != nil {
			return fmt.Errorf("failed to register tool %s: %w", tool.Name, err)
		}
	}

	return nil
}

// createGetNodeByClassTool creates the get_node_by_class tool definition
func createGetNodeByClassTool(slicer *SlicerTools) toolexecutor.ToolDefinition {
	return toolexecutor.ToolDefinition{
		Name:        "get_node_by_class",
		Description: "Return all nodes in the scene of the specified class.",
		Parameters: []toolexecutor.ToolParameter{
			{
				Name: "class_name",
				Type: "string",
				Description: "The name of the node class to look up. Common classes: " +
					"vtkMRMLVolumeNode (3D images), vtkMRMLModelNode (surface or volumetric meshes), " +
					"vtkMRMLSegmentationNode (image segmentations), vtkMRMLMarkupsNode (points, lines, " +
					"angles, curves, planes for annotation and measurement), vtkMRMLTransformNode " +
					"(geometrical transformations), vtkMRMLTextNode (text data), vtkMRMLTableNode " +
					"(tabular data).",
				Required: true,
			},
		},
		Handler: handleGetNodeByClass(slicer),
	}
}

// createGetVisibleSegmentsTool creates the get_visible_segments tool definition
func createGetVisibleSegmentsTool(slicer *SlicerTools) toolexecutor.ToolDefinition {
	return toolexecutor.ToolDefinition{
		Name:        "get_visible_segments",
		Description: "Context tool: Lists all currently visible segments in a specified segmentation node, including their color.",
		Parameters: []toolexecutor.ToolParameter{
			{
				Name:        "segmentation_node",
				Type:        "string",
				Description: "The node ID of the segmentation node to inspect",
				Required:    true,
			},
		},
		Handler: handleGetVisibleSegments(slicer),
	}
}

// createSetAllSegmentsVisibilityTool creates the set_all_segments_visibility tool definition
func createSetAllSegmentsVisibilityTool(slicer *SlicerTools) toolexecutor.ToolDefinition {
	return toolexecutor.ToolDefinition{
		Name:        "set_all_segments_visibility",
		Description: "Action tool: Sets the visibility of all segments (i.e. shows or hides all segments) within a specified segmentation node.",
		Parameters: []toolexecutor.ToolParameter{
			{
				Name:        "segmentation_node_name",
				Type:        "string",
				Description: "The name of the segmentation node to modify",
				Required:    true,
			},
			{
				Name:        "visible",
				Type:        "boolean",
				Description: "True to show all segments, false to hide all segments",
				Required:    true,
			},
		},
		Handler: handleSetAllSegmentsVisibility(slicer),
	}
}

// createSetSegmentsVisibilityTool creates the set_segments_visibility tool definition
func createSetSegmentsVisibilityTool(slicer *SlicerTools) toolexecutor.ToolDefinition {
	return toolexecutor.ToolDefinition{
		Name:        "set_segments_visibility",
		Description: "Action tool: Shows or hides a specific list of segments by name within a segmentation node and centers the view.",
		Parameters: []toolexecutor.ToolParameter{
			{
				Name:        "segmentation_node_name",
				Type:        "string",
				Description: "The node name of the segmentation node to modify",
				Required:    true,
			},
			{
				Name:        "segment_names",
				Type:        "array",
				Description: "A list of segment names to set visibility for",
				Required:    true,
			},
			{
				Name:        "visible",
				Type:        "boolean",
				Description: "True to show the specified segments, false to hide them",
				Required:    true,
			},
		},
		Handler: handleSetSegmentsVisibility(slicer),
	}
}

// createCenterViewTool creates the center_view tool definition
func createCenterViewTool(slicer *SlicerTools) toolexecutor.ToolDefinition {
	return toolexecutor.ToolDefinition{
		Name:        "center_view",
		Description: "Action tool: Centers all 2D slice views and the 3D view on the currently loaded data.",
		Parameters:  []toolexecutor.ToolParameter{},
		Handler:     handleCenterView(slicer),
	}
}

// Handler implementations

// handleGetNodeByClass creates the handler for the get_node_by_class tool
func handleGetNodeByClass(slicer *SlicerTools) toolexecutor.ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		className, ok := params["class_name"].(string)
		if !ok {
			return nil, fmt.Errorf("class_name parameter is required and must be a string")
		}

		return slicer.GetNodeByClass(ctx, className)
	}
}

// handleGetVisibleSegments creates the handler for the get_visible_segments tool
func handleGetVisibleSegments(slicer *SlicerTools) toolexecutor.ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		segmentationNode, ok := params["segmentation_node"].(string)
		if !ok {
			return nil, fmt.Errorf("segmentation_node parameter is required and must be a string")
		}

		return slicer.GetVisibleSegments(ctx, segmentationNode)
	}
}

// handleSetAllSegmentsVisibility creates the handler for the set_all_segments_visibility tool
func handleSetAllSegmentsVisibility(slicer *SlicerTools) toolexecutor.ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		name, ok := params["segmentation_node_name"].(string)
		if !ok {
			return nil, fmt.Errorf("segmentation_node_name parameter is required and must be a string")
		}

		visible, ok := params["visible"].(bool)
		if !ok {
			return nil, fmt.Errorf("visible parameter is required and must be a boolean")
		}

		return slicer.SetAllSegmentsVisibility(ctx, name, visible)
	}
}

// handleSetSegmentsVisibility creates the handler for the set_segments_visibility tool
func handleSetSegmentsVisibility(slicer *SlicerTools) toolexecutor.ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		name, ok := params["segmentation_node_name"].(string)
		if !ok {
			return nil, fmt.Errorf("segmentation_node_name parameter is required and must be a string")
		}

		namesParam, ok := params["segment_names"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("segment_names parameter is required and must be an array")
		}
		segmentNames := make([]string, 0, len(namesParam))
		for _, name := range namesParam {
			segmentName, ok := name.(string)
			if !ok {
				return nil, fmt.Errorf("segment_names entries must be strings")
			}
			segmentNames = append(segmentNames, segmentName)
		}

		visible, ok := params["visible"].(bool)
		if !ok {
			return nil, fmt.Errorf("visible parameter is required and must be a boolean")
		}

		return slicer.SetSegmentsVisibility(ctx, name, segmentNames, visible)
	}
}

// handleCenterView creates the handler for the center_view tool
func handleCenterView(slicer *SlicerTools) toolexecutor.ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return slicer.CenterView(ctx), nil
	}
}
