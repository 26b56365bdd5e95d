package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecmalabs/espatch"
	"github.com/ecmalabs/espatch/internal"
	tt "github.com/ecmalabs/espatch/internal/types"
)

var (
	moduleSystem     string
	phase            string
	ignoreTransforms string
	writeOutput      bool
	jsonOutput       bool
	outPath          string
	watchMode        bool
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Apply the configured transforms to AST documents",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		overrides := map[string]tt.ConfigTransform{
			"import-meta-url": {Module: moduleSystem, Phase: phase},
		}
		engine, err := espatch.New(cfgFile, overrides)
		if err != nil {
			logger.Fatal("Failed to initialize transform engine", zap.Error(err))
		}

		if ignoreTransforms != "" {
			for _, name := range strings.Split(ignoreTransforms, ",") {
				engine.IgnoreTransform(strings.TrimSpace(name))
			}
		}

		if watchMode {
			runWatch(engine, args)
			return
		}

		runTransformProcess(ctx, logger, engine, args, writeOutput, jsonOutput, outPath)
	},
}

func init() {
	runCmd.Flags().StringVar(&moduleSystem, "module", "", "Target module system (CommonJS or ES6)")
	runCmd.Flags().StringVar(&phase, "phase", "", "Traversal phase (enter or exit)")
	runCmd.Flags().StringVar(&ignoreTransforms, "ignore", "", "Comma-separated list of transforms to skip")
	runCmd.Flags().BoolVarP(&writeOutput, "write", "w", false, "Write rewritten documents back to their files")
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the change report in JSON format")
	runCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	runCmd.Flags().BoolVar(&watchMode, "watch", false, "Watch directories and re-run on changes")
}

func runTransformProcess(ctx context.Context, logger *zap.Logger, engine espatch.TransformEngine, paths []string, write, isJson bool, jsonOutput string) {
	processor := espatch.ProcessFile
	if write {
		processor = espatch.WriteProcessor()
	}

	changes, err := espatch.ProcessFiles(ctx, logger, engine, paths, processor)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}

	printChanges(logger, changes, isJson, jsonOutput)
}

func runWatch(engine *internal.Engine, paths []string) {
	for _, path := range paths {
		engine.AddWatchDir(path)
	}
	if err := engine.StartWatching(); err != nil {
		logger.Fatal("Failed to start watching", zap.Error(err))
	}
	defer engine.StopWatching()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

func printChanges(logger *zap.Logger, changes []tt.Change, isJson bool, jsonOutput string) {
	changesByFile := make(map[string][]tt.Change)
	for _, change := range changes {
		changesByFile[change.Filename] = append(changesByFile[change.Filename], change)
	}

	sortedFiles := make([]string, 0, len(changesByFile))
	for filename := range changesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	if !isJson {
		for _, filename := range sortedFiles {
			fmt.Print(internal.FormatChanges(changesByFile[filename]))
		}
		return
	}

	d, err := json.MarshalIndent(changesByFile, "", "  ")
	if err != nil {
		logger.Error("Error marshalling changes", zap.Error(err))
		os.Exit(1)
	}
	if jsonOutput == "" {
		fmt.Println(string(d))
		return
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		logger.Error("Error writing output file", zap.Error(err))
		os.Exit(1)
	}
}
