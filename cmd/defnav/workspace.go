package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var workspaceFormat string

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "List the documents in the solution graph",
	Run:   runWorkspace,
}

func init() {
	workspaceCmd.Flags().StringVar(&workspaceFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(workspaceCmd)
}

func runWorkspace(cmd *cobra.Command, args []string) {
	logger := newLogger(workspaceFormat)
	rootDir := mustGetRootDir()
	s := mustGetSession(rootDir, logger)

	response := &WorkspaceResponseCLI{}
	for _, doc := range s.graph.Documents() {
		snap := doc.Snapshot()
		response.Documents = append(response.Documents, WorkspaceDocumentCLI{
			Path:    doc.Path(),
			Project: doc.Project(),
			Version: doc.Version(),
			Lines:   snap.LineCount(),
		})
	}

	output, err := FormatResponse(response, OutputFormat(workspaceFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}

// WorkspaceResponseCLI is the workspace command's output payload
type WorkspaceResponseCLI struct {
	Documents []WorkspaceDocumentCLI `json:"documents"`
}

// WorkspaceDocumentCLI is one solution graph entry
type WorkspaceDocumentCLI struct {
	Path    string `json:"path"`
	Project string `json:"project,omitempty"`
	Version int64  `json:"version"`
	Lines   int    `json:"lines"`
}
