package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cindysoftware/hero/internal/cache"
	"github.com/cindysoftware/hero/internal/catalog"
	"github.com/cindysoftware/hero/internal/config"
	"github.com/cindysoftware/hero/internal/dataset"
	"github.com/cindysoftware/hero/internal/generate"
	"github.com/cindysoftware/hero/internal/home"
	"github.com/cindysoftware/hero/internal/pipeline"
	"github.com/cindysoftware/hero/version"
)

var (
	cfgFile string
	homeDir string
)

var rootCmd = &cobra.Command{
	Use:   "hero",
	Short: "Deterministic vocabulary worksheet generator",
	Long: `Hero produces fill-in-the-blank vocabulary worksheets from leveled
source datasets, with sentences written by a language model.

Every worksheet has a stable 12-character identity that encodes its
exact inputs (dataset, reading level, section, theme, model, seed).
Generated worksheets are cached on disk; the same identity always
yields the same worksheet.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.hero/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "hero home directory (default: ~/.hero)",
	)

	rootCmd.AddCommand(versionCmd)
}

// env bundles everything a command needs after setup.
type env struct {
	home    *home.Dir
	cfg     *config.Config
	logger  *slog.Logger
	service *pipeline.Service
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// setup loads config, resolves the home layout, and wires the pipeline.
func setup() (*env, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}

	file := cfgFile
	if file == "" && h.ConfigExists() {
		file = h.ConfigPath()
	}
	mgr, err := config.NewManager(file)
	if err != nil {
		return nil, err
	}
	cfg := mgr.Get()
	logger := newLogger(cfg.LogLevel)

	paths := resolvedPaths(h, cfg)

	catalogs, err := catalog.LoadDir(paths.referenceData)
	if err != nil {
		return nil, fmt.Errorf("loading catalogs: %w", err)
	}

	adapter := generate.NewOpenAIAdapter(generate.OpenAIConfig{
		APIKey:      cfg.APIKey(),
		BaseURL:     cfg.Generation.BaseURL,
		PromptPath:  paths.prompt,
		ThemesDir:   paths.themes,
		Temperature: cfg.Generation.Temperature,
		Timeout:     time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
		Logger:      logger,
		Recorder:    generate.NewRecorder(paths.callLog),
	})

	svc := pipeline.New(pipeline.Config{
		Catalogs: catalogs,
		Datasets: dataset.NewLoader(paths.sourceDatasets),
		Cache:    cache.NewStore(paths.datastore),
		Adapter:  adapter,
		Logger:   logger,
	})

	return &env{home: h, cfg: cfg, logger: logger, service: svc}, nil
}

type paths struct {
	datastore      string
	referenceData  string
	sourceDatasets string
	themes         string
	prompt         string
	callLog        string
	exports        string
}

func resolvedPaths(h *home.Dir, cfg *config.Config) paths {
	pick := func(override, fallback string) string {
		if override != "" {
			return override
		}
		return fallback
	}
	return paths{
		datastore:      pick(cfg.Paths.Datastore, h.DatastorePath()),
		referenceData:  pick(cfg.Paths.ReferenceData, h.ReferenceDataPath()),
		sourceDatasets: pick(cfg.Paths.SourceDatasets, h.SourceDatasetsPath()),
		themes:         pick(cfg.Paths.Themes, h.ThemesPath()),
		prompt:         pick(cfg.Paths.Prompt, h.PromptPath()),
		callLog:        pick(cfg.Paths.CallLog, h.CallLogPath()),
		exports:        pick(cfg.Paths.Exports, h.ExportsDir()),
	}
}
