package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"defnav/internal/classify"
	"defnav/internal/config"
	"defnav/internal/document"
	"defnav/internal/logging"
	"defnav/internal/oracle/scip"
	"defnav/internal/project"
	"defnav/internal/resolve"
	"defnav/internal/storage"
	"defnav/internal/workspace"
)

// session bundles everything a command needs to answer navigation queries.
type session struct {
	rootDir  string
	cfg      *config.Config
	graph    *workspace.Graph
	resolver *resolve.Resolver
	oracle   *scip.Oracle
	db       *storage.DB
}

var (
	sessionOnce   sync.Once
	sharedSession *session
	sessionErr    error
)

// getSession returns a shared session, lazily initialized on first use.
func getSession(rootDir string, logger *logging.Logger) (*session, error) {
	sessionOnce.Do(func() {
		cfg, err := config.LoadConfig(rootDir)
		if err != nil {
			logger.Warn("Failed to load config, using defaults", map[string]interface{}{
				"error": err.Error(),
			})
			cfg = config.DefaultConfig()
		}
		if err := cfg.Validate(); err != nil {
			sessionErr = err
			return
		}

		graph, err := loadGraph(rootDir, cfg)
		if err != nil {
			sessionErr = err
			return
		}

		var db *storage.DB
		var cache *storage.DeclCache
		if cfg.Oracle.CacheEnabled {
			db, err = storage.Open(rootDir, logger)
			if err != nil {
				sessionErr = fmt.Errorf("failed to open database: %w", err)
				return
			}
			cache = storage.NewDeclCache(db)
		}

		orc, err := scip.New(scip.Config{
			IndexPath: resolveAgainst(rootDir, cfg.Oracle.IndexPath),
			Root:      rootDir,
			Cache:     cache,
			CacheTTL:  time.Duration(cfg.Oracle.CacheTtlSeconds) * time.Second,
		}, logger)
		if err != nil {
			sessionErr = err
			return
		}

		classifier, err := newClassifier(cfg)
		if err != nil {
			sessionErr = err
			return
		}

		compilation, err := loadCompilation(rootDir)
		if err != nil {
			sessionErr = fmt.Errorf("failed to load project.toml: %w", err)
			return
		}

		sharedSession = &session{
			rootDir:  rootDir,
			cfg:      cfg,
			graph:    graph,
			resolver: resolve.New(classifier, orc, compilation, logger),
			oracle:   orc,
			db:       db,
		}
	})

	return sharedSession, sessionErr
}

// mustGetSession returns the shared session or exits on error.
func mustGetSession(rootDir string, logger *logging.Logger) *session {
	s, err := getSession(rootDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing session: %v\n", err)
		os.Exit(1)
	}
	return s
}

// loadGraph builds the solution graph from the workspace manifest. A missing
// manifest yields an empty graph; documents are then loaded ad hoc.
func loadGraph(rootDir string, cfg *config.Config) (*workspace.Graph, error) {
	manifestPath := resolveAgainst(rootDir, cfg.Workspace.ManifestPath)
	if _, err := os.Stat(manifestPath); err != nil {
		return workspace.NewGraph(), nil
	}

	manifest, err := workspace.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	return manifest.BuildGraph(rootDir)
}

// loadCompilation reads the compilation configuration from project.toml at
// the workspace root. A missing file yields the empty default; a file that
// exists but does not parse is an error.
func loadCompilation(rootDir string) (*project.CompilationConfig, error) {
	path := filepath.Join(rootDir, "project.toml")
	if _, err := os.Stat(path); err != nil {
		return project.Default(), nil
	}
	return project.Load(path)
}

// documentFor finds the requested document in the graph, preferring the
// given project tag. Files outside the manifest are read from disk and
// registered so the locator can still map results back onto them.
func (s *session) documentFor(path, preferProject string) (*document.Document, error) {
	matches := s.graph.FindByPath(path)
	if len(matches) > 0 {
		if preferProject != "" {
			for _, m := range matches {
				if m.Project() == preferProject {
					return m, nil
				}
			}
		}
		return matches[0], nil
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	doc := document.New(path, preferProject, string(text))
	s.graph.Add(doc)
	return doc, nil
}

func newClassifier(cfg *config.Config) (classify.Classifier, error) {
	switch cfg.Classifier.Engine {
	case "tree-sitter":
		return classify.NewTreeSitterClassifier(), nil
	case "none":
		// Gate disabled: treat every position as an identifier candidate.
		return classify.Func(func(ctx context.Context, snap *document.Snapshot, offset int) (classify.Category, error) {
			return classify.CategoryIdentifier, nil
		}), nil
	default:
		return nil, fmt.Errorf("unknown classifier engine: %s", cfg.Classifier.Engine)
	}
}

// resolveAgainst joins a possibly relative path onto the root directory.
func resolveAgainst(rootDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootDir, path)
}

// getRootDir returns the workspace root directory.
func getRootDir() (string, error) {
	if rootFlag != "" {
		return rootFlag, nil
	}
	return os.Getwd()
}

// mustGetRootDir returns the workspace root or exits on error.
func mustGetRootDir() string {
	rootDir, err := getRootDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return rootDir
}

// newLogger creates a logger with the specified format.
func newLogger(format string) *logging.Logger {
	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logging.InfoLevel,
	})
}
