package main

import (
	"defnav/internal/version"

	"github.com/spf13/cobra"
)

var (
	// rootFlag is the CLI --root flag value
	rootFlag string
)

var rootCmd = &cobra.Command{
	Use:   "defnav",
	Short: "defnav - identifier definition navigation",
	Long: `defnav resolves "go to definition" requests over a workspace of source
documents. It classifies the position, extracts the identifier under the
cursor, and asks a SCIP-index-backed oracle for the declaration site.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("defnav version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "",
		"Workspace root directory (default: current directory)")
}
