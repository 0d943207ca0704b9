package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/A2B-Technology-Corporation/SlicerTools/pkg/slicertools"
	"github.com/A2B-Technology-Corporation/SlicerTools/pkg/toolexecutor"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool descriptors as JSON",
	Long: `Print the declarative descriptors of all Slicer tools as JSON,
for orchestrator discovery or documentation. No connection to Slicer is made.`,
	RunE: runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	// Descriptors do not require a live bridge; register against a nil facade
	executor := toolexecutor.New()
	slicer := slicertools.New(nil, zerolog.Nop())
	if err := slicertools.RegisterSlicerTools(executor, slicer); err != nil {
		return fmt.Errorf("failed to register Slicer tools: %w", err)
	}

	data, err := json.MarshalIndent(executor.Descriptors(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal descriptors: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
