// Package pipeline provides the high-level orchestration for the overflow collection process.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/overflow-checker/internal/browser"
	"github.com/jonathan/overflow-checker/internal/collector"
	"github.com/jonathan/overflow-checker/internal/db"
	"github.com/jonathan/overflow-checker/internal/devserver"
	"github.com/jonathan/overflow-checker/internal/enhance"
	"github.com/jonathan/overflow-checker/internal/instrument"
	"github.com/jonathan/overflow-checker/internal/observability"
	"github.com/jonathan/overflow-checker/internal/report"
)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	ProjectDir  string
	OutputPath  string   // Optional override for the report location
	DevCommand  []string // Optional override for the dev server invocation
	DatabaseURL string
	Verbose     bool
}

// RunPipeline orchestrates the full collection run: start the dev server,
// drive every slide in a headless browser, enhance the raw summary with fix
// suggestions, and write the report. Database persistence is best-effort and
// never blocks the run.
func RunPipeline(ctx context.Context, opts RunOptions) error {
	printer := observability.NewPrinter(os.Stdout)

	// Initialize database connection if configured
	var database *db.DB
	var runID uuid.UUID
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
		} else {
			defer database.Close()
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	if database != nil {
		var err error
		runID, err = database.CreateRun(ctx, opts.ProjectDir)
		if err != nil {
			fmt.Printf("Warning: Failed to create database run: %v\n", err)
			runID = uuid.Nil
		} else if opts.Verbose {
			fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
		}
	}

	fmt.Printf("Step 1/4: Collecting overflow data from slides...\n\n")
	server := devserver.New(opts.ProjectDir, devserver.Options{
		Command: opts.DevCommand,
		Verbose: opts.Verbose,
	})
	session := browser.NewSession()
	page := instrument.New(session)

	raw, err := collector.New(server, session, page).Collect(ctx)
	if err != nil {
		if database != nil && runID != uuid.Nil {
			_ = database.CompleteRun(ctx, runID, db.StatusFailed)
		}
		return fmt.Errorf("collection failed: %w", err)
	}
	if database != nil && runID != uuid.Nil {
		_ = database.SaveSummary(ctx, runID, db.StageRawSummary, raw)
	}

	fmt.Printf("\nStep 2/4: Generating fix suggestions...\n")
	enhanced := enhance.Enhance(raw, opts.ProjectDir)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveSummary(ctx, runID, db.StageEnhancedSummary, enhanced)
	}

	fmt.Printf("Step 3/4: Writing report...\n")
	path := opts.OutputPath
	if path == "" {
		var writeErr error
		path, writeErr = report.Write(opts.ProjectDir, enhanced)
		if writeErr != nil {
			if database != nil && runID != uuid.Nil {
				_ = database.CompleteRun(ctx, runID, db.StatusFailed)
			}
			return writeErr
		}
	} else {
		if err := report.WriteTo(path, enhanced); err != nil {
			if database != nil && runID != uuid.Nil {
				_ = database.CompleteRun(ctx, runID, db.StatusFailed)
			}
			return err
		}
	}

	fmt.Printf("Step 4/4: Summarizing results...\n\n")
	printer.PrintSummary(enhanced)
	if opts.Verbose {
		for i := range enhanced.Reports {
			printer.PrintSlideDetail(&enhanced.Reports[i])
		}
	}

	if database != nil && runID != uuid.Nil {
		_ = database.CompleteRun(ctx, runID, db.StatusCompleted)
	}

	fmt.Printf("\n💾 Report saved to: %s\n", path)
	return nil
}
