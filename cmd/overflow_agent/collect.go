package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/overflow-checker/internal/config"
	"github.com/jonathan/overflow-checker/internal/pipeline"
)

var collectCommand = &cobra.Command{
	Use:   "collect [project-dir]",
	Short: "Collect overflow data from every slide and write the report",
	Long: `Starts the project's dev server, loads the presentation in a headless Chrome,
navigates through every slide to trigger overflow detection, and writes an
enhanced check_overflow.json report with fix suggestions.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCollectCmd,
}

var (
	collectConfigPath  string
	collectOutput      string
	collectDevCommand  []string
	collectDatabaseURL string
	collectVerbose     bool
)

func init() {
	// Config file flag (processed first)
	collectCommand.Flags().StringVar(&collectConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	collectCommand.Flags().StringVarP(&collectOutput, "output", "o", "", "Report path (defaults to <project-dir>/check_overflow.json)")
	collectCommand.Flags().StringSliceVar(&collectDevCommand, "dev-command", nil, "Dev server command (defaults to 'pnpm,dev,--port,0')")
	collectCommand.Flags().BoolVarP(&collectVerbose, "verbose", "v", false, "Print detailed debug information")

	// Database URL for artifact persistence
	collectCommand.Flags().StringVar(&collectDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(collectCommand)
}

func runCollectCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if collectConfigPath != "" {
		loadedCfg, err := config.LoadConfig(collectConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Validate loaded config
		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if collectVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", collectConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if len(args) > 0 {
		cfg.ProjectDir = args[0]
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = collectOutput
	}
	if cmd.Flags().Changed("dev-command") {
		cfg.DevCommand = collectDevCommand
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = collectVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = collectDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		ProjectDir: ".",
	})

	// Step 4: Database URL is optional; fall back to the environment
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	// Step 5: Validate the target project
	if info, err := os.Stat(cfg.ProjectDir); err != nil {
		return fmt.Errorf("project directory %s: %w", cfg.ProjectDir, err)
	} else if !info.IsDir() {
		return fmt.Errorf("project directory %s is not a directory", cfg.ProjectDir)
	}

	opts := pipeline.RunOptions{
		ProjectDir:  cfg.ProjectDir,
		OutputPath:  cfg.Output,
		DevCommand:  cfg.DevCommand,
		DatabaseURL: cfg.DatabaseURL,
		Verbose:     cfg.Verbose,
	}

	return pipeline.RunPipeline(ctx, opts)
}
