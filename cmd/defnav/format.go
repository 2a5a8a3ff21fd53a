package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *DefinitionResponseCLI:
		return formatDefinitionHuman(v)
	case *StatusResponseCLI:
		return formatStatusHuman(v)
	case *WorkspaceResponseCLI:
		return formatWorkspaceHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatDefinitionHuman(resp *DefinitionResponseCLI) (string, error) {
	var b strings.Builder

	if !resp.Found {
		b.WriteString("No definition found")
		if resp.Island != nil {
			b.WriteString(fmt.Sprintf(" for %q", resp.Island.Text))
		}
		b.WriteString(fmt.Sprintf(" (%dms)\n", resp.DurationMs))
		return b.String(), nil
	}

	if resp.Island != nil {
		b.WriteString(fmt.Sprintf("Identifier: %s\n", resp.Island.Text))
		if len(resp.Island.Qualifiers) > 1 {
			b.WriteString(fmt.Sprintf("  Qualifiers: %s\n", strings.Join(resp.Island.Qualifiers, " . ")))
		}
	}
	if resp.Definition != nil {
		b.WriteString(fmt.Sprintf("Definition: %s:%d:%d\n",
			resp.Definition.Path, resp.Definition.StartLine, resp.Definition.StartColumn))
	}
	if resp.Target != nil {
		b.WriteString(fmt.Sprintf("  Text: %q\n", resp.Target.Text))
		if resp.Target.Project != "" {
			b.WriteString(fmt.Sprintf("  Project: %s\n", resp.Target.Project))
		}
	} else {
		b.WriteString("  (declaration file is outside the workspace)\n")
	}
	b.WriteString(fmt.Sprintf("Duration: %dms\n", resp.DurationMs))

	return b.String(), nil
}

func formatStatusHuman(resp *StatusResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("defnav status\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Root: %s\n\n", resp.RootDir))

	b.WriteString("Index:\n")
	b.WriteString(fmt.Sprintf("  Path: %s\n", resp.Index.Path))
	if resp.Index.Tool != "" {
		b.WriteString(fmt.Sprintf("  Tool: %s\n", resp.Index.Tool))
	}
	b.WriteString(fmt.Sprintf("  Documents: %d\n", resp.Index.Documents))
	b.WriteString(fmt.Sprintf("  Symbols: %d\n", resp.Index.Symbols))
	b.WriteString(fmt.Sprintf("  Loaded: %s\n\n", resp.Index.LoadedAt))

	b.WriteString("Workspace:\n")
	b.WriteString(fmt.Sprintf("  Manifest: %s\n", resp.Workspace.ManifestPath))
	b.WriteString(fmt.Sprintf("  Documents: %d\n\n", resp.Workspace.Documents))

	b.WriteString(fmt.Sprintf("Classifier: %s\n", resp.Classifier))
	if resp.CachePath != "" {
		b.WriteString(fmt.Sprintf("Cache: %s\n", resp.CachePath))
	} else {
		b.WriteString("Cache: disabled\n")
	}

	return b.String(), nil
}

func formatWorkspaceHuman(resp *WorkspaceResponseCLI) (string, error) {
	var b strings.Builder

	if len(resp.Documents) == 0 {
		return "No documents in the workspace\n", nil
	}

	b.WriteString(fmt.Sprintf("%d document(s):\n", len(resp.Documents)))
	for _, doc := range resp.Documents {
		b.WriteString(fmt.Sprintf("  %s", doc.Path))
		if doc.Project != "" {
			b.WriteString(fmt.Sprintf(" [%s]", doc.Project))
		}
		b.WriteString(fmt.Sprintf(" (v%d, %d lines)\n", doc.Version, doc.Lines))
	}

	return b.String(), nil
}
