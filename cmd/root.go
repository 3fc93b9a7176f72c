// Package cmd provides the CLI commands of dspace-crosswalk.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/config"
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/mapping"
	"github.com/lehigh-university-libraries/dspace-crosswalk/schema"
)

var (
	configFile  string
	fixtureFile string
	schemaPath  string
	mappingDir  string
)

func setupLogger(w io.Writer) {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// slogcontext adds the attributes put on the context with slogcontext.With
	handler := slogcontext.NewHandler(slog.NewTextHandler(w, opts), nil)
	slog.SetDefault(slog.New(handler))
}

var rootCmd = &cobra.Command{
	Use:   "dspace-crosswalk",
	Short: "Translate repository objects to and from metadata vocabularies",
	Long: `dspace-crosswalk converts repository objects between DSpace metadata
and external XML vocabularies (MODS, QDC, METS, PREMIS, ORE, OAI-DC, CERIF
and more), and applies JSON Patch requests to them.

Objects come from a JSON fixture describing communities, collections, items,
epersons and policies.

Examples:
  dspace-crosswalk disseminate mods --fixture repo.json --object 123456789/5
  dspace-crosswalk ingest qdc --fixture repo.json --object 123456789/5 -i qdc.xml
  dspace-crosswalk patch items <uuid> --fixture repo.json -i ops.json
  dspace-crosswalk serve --fixture repo.json`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger(os.Stderr)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&fixtureFile, "fixture", "", "Repository fixture (JSON)")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schemas", "", "Extra metadata field registry file or directory")
	rootCmd.PersistentFlags().StringVar(&mappingDir, "mappings", "", "Directory of extra mapping profiles (default: ~/.dspace-crosswalk/mappings)")

	rootCmd.AddCommand(disseminateCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(crosswalksCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(mappingsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadEnv builds the crosswalk environment from the global flags. Without a
// fixture the store is empty apart from the site.
func loadEnv() (*crosswalk.Env, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	store := content.NewStore(cfg.HandlePrefix, cfg.SiteName)
	if fixtureFile != "" {
		f, err := os.Open(fixtureFile)
		if err != nil {
			return nil, fmt.Errorf("opening fixture: %w", err)
		}
		defer f.Close()
		if store, err = content.LoadFixture(f); err != nil {
			return nil, fmt.Errorf("loading fixture %s: %w", fixtureFile, err)
		}
	}

	fields, err := schema.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}
	if schemaPath != "" {
		if err := fields.LoadFromPath(schemaPath); err != nil {
			return nil, fmt.Errorf("loading field registry: %w", err)
		}
	}

	profiles, err := mapping.NewProfileRegistry()
	if err != nil {
		return nil, err
	}
	dir := mappingDir
	if dir == "" {
		dir = userMappingDir()
	}
	if dir != "" {
		if err := profiles.LoadFromDirectory(dir); err != nil {
			return nil, fmt.Errorf("loading mapping profiles: %w", err)
		}
	}

	slog.Debug("environment loaded", "objects", store.Len(), "fields", len(fields.Fields()), "profiles", len(profiles.List()))
	return crosswalk.NewEnv(store, fields, cfg, profiles), nil
}

// userMappingDir returns ~/.dspace-crosswalk/mappings when it exists.
func userMappingDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".dspace-crosswalk", "mappings")
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return ""
	}
	return dir
}

// openInput returns the named file, or stdin for "" and "-".
func openInput(name string) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	return f, nil
}

// createOutput returns the named file, or stdout for "" and "-".
func createOutput(name string) (io.WriteCloser, error) {
	if name == "" || name == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
