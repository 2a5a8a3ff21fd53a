package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusFormat string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index, cache and workspace status",
	Run:   runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	logger := newLogger(statusFormat)
	rootDir := mustGetRootDir()
	s := mustGetSession(rootDir, logger)

	index := s.oracle.Index()
	response := &StatusResponseCLI{
		RootDir: s.rootDir,
		Index: IndexStatusCLI{
			Path:      index.Path,
			Tool:      index.ToolName,
			Documents: index.DocumentCount,
			Symbols:   index.SymbolCount(),
			LoadedAt:  index.LoadedAt.Format("2006-01-02 15:04:05"),
		},
		Workspace: WorkspaceStatusCLI{
			ManifestPath: resolveAgainst(s.rootDir, s.cfg.Workspace.ManifestPath),
			Documents:    s.graph.Len(),
		},
		Classifier: s.cfg.Classifier.Engine,
	}
	if s.db != nil {
		response.CachePath = s.db.Path()
	}

	output, err := FormatResponse(response, OutputFormat(statusFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}

// StatusResponseCLI is the status command's output payload
type StatusResponseCLI struct {
	RootDir    string             `json:"rootDir"`
	Index      IndexStatusCLI     `json:"index"`
	Workspace  WorkspaceStatusCLI `json:"workspace"`
	Classifier string             `json:"classifier"`
	CachePath  string             `json:"cachePath,omitempty"`
}

// IndexStatusCLI describes the loaded SCIP index
type IndexStatusCLI struct {
	Path      string `json:"path"`
	Tool      string `json:"tool,omitempty"`
	Documents int    `json:"documents"`
	Symbols   int    `json:"symbols"`
	LoadedAt  string `json:"loadedAt"`
}

// WorkspaceStatusCLI describes the solution graph
type WorkspaceStatusCLI struct {
	ManifestPath string `json:"manifestPath"`
	Documents    int    `json:"documents"`
}
