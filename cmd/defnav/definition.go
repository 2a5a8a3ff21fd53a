package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"defnav/internal/workspace"
)

var (
	definitionFormat    string
	definitionProject   string
	definitionTimeoutMs int
)

var definitionCmd = &cobra.Command{
	Use:   "definition <file> <offset>",
	Short: "Resolve the definition of the identifier at a byte offset",
	Long: `Resolve the definition of the identifier at the given byte offset.

The file is looked up in the workspace manifest; files outside the manifest
are loaded from disk. The offset is a 0-based byte offset into the file.`,
	Args: cobra.ExactArgs(2),
	Run:  runDefinition,
}

func init() {
	definitionCmd.Flags().StringVar(&definitionFormat, "format", "json", "Output format (json, human)")
	definitionCmd.Flags().StringVar(&definitionProject, "project", "", "Project tag to prefer when a file belongs to several projects")
	definitionCmd.Flags().IntVar(&definitionTimeoutMs, "timeout-ms", 0, "Resolution timeout in milliseconds (default: config queryTimeoutMs)")
	rootCmd.AddCommand(definitionCmd)
}

func runDefinition(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := newLogger(definitionFormat)

	offset, err := strconv.Atoi(args[1])
	if err != nil || offset < 0 {
		fmt.Fprintf(os.Stderr, "Error: offset must be a non-negative integer, got %q\n", args[1])
		os.Exit(1)
	}

	rootDir := mustGetRootDir()
	s := mustGetSession(rootDir, logger)

	doc, err := s.documentFor(args[0], definitionProject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	timeout := time.Duration(definitionTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = time.Duration(s.cfg.Oracle.QueryTimeoutMs) * time.Millisecond
	}

	result, ok := s.resolver.TryFindDefinition(doc, offset, timeout)

	response := &DefinitionResponseCLI{
		Found:      ok,
		RequestID:  result.RequestID,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if result.Island != nil {
		response.Island = &IslandCLI{
			Text:       result.Island.Text,
			Qualifiers: result.Island.Qualifiers,
			Quoted:     result.Island.Quoted,
		}
	}
	if ok {
		response.Definition = &LocationCLI{
			Path:        result.Range.Path,
			StartLine:   result.Range.StartLine,
			StartColumn: result.Range.StartColumn,
			EndLine:     result.Range.EndLine,
			EndColumn:   result.Range.EndColumn,
		}
		if target := workspace.Locate(result.Range, s.graph, doc.Project()); target != nil {
			response.Target = &TargetCLI{
				Path:    target.Document.Path(),
				Project: target.Document.Project(),
				Start:   target.Span.Start,
				End:     target.Span.End,
				Text:    target.Text,
			}
		}
	}

	output, err := FormatResponse(response, OutputFormat(definitionFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("Definition query completed", map[string]interface{}{
		"path":     args[0],
		"offset":   offset,
		"found":    ok,
		"duration": response.DurationMs,
	})
}

// DefinitionResponseCLI is the definition command's output payload
type DefinitionResponseCLI struct {
	Found      bool         `json:"found"`
	Island     *IslandCLI   `json:"island,omitempty"`
	Definition *LocationCLI `json:"definition,omitempty"`
	Target     *TargetCLI   `json:"target,omitempty"`
	RequestID  string       `json:"requestId,omitempty"`
	DurationMs int64        `json:"durationMs"`
}

// IslandCLI describes the identifier expression that was resolved
type IslandCLI struct {
	Text       string   `json:"text"`
	Qualifiers []string `json:"qualifiers"`
	Quoted     bool     `json:"quoted"`
}

// LocationCLI is a declaration range (1-based lines, 0-based columns)
type LocationCLI struct {
	Path        string `json:"path"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
}

// TargetCLI is the declaration mapped onto a workspace document
type TargetCLI struct {
	Path    string `json:"path"`
	Project string `json:"project,omitempty"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Text    string `json:"text"`
}
