// Package espatch is the public facade of the espatch transform engine: it
// wires configuration, the transform registry, and file processing together
// for hosts and the CLI. Program units travel as ESTree JSON documents; the
// engine never parses or prints JavaScript source text.
package espatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ecmalabs/espatch/internal"
	tt "github.com/ecmalabs/espatch/internal/types"
)

const defaultConfigFile = ".espatch.yaml"

// TransformEngine is the engine surface the facade helpers operate on.
type TransformEngine interface {
	Run(filePath string) ([]tt.Change, []byte, error)
	RunSource(source []byte) ([]tt.Change, []byte, error)
	IgnoreTransform(name string)
}

// Processor runs the engine against one file and returns the changes made.
type Processor func(engine TransformEngine, filePath string) ([]tt.Change, error)

// New builds an engine from the configuration file at configurationPath,
// with overrides (typically CLI flags) taking precedence over file entries.
// An empty path means no configuration file; defaults apply.
func New(configurationPath string, overrides map[string]tt.ConfigTransform) (*internal.Engine, error) {
	config, err := parseConfigurationFile(configurationPath)
	if err != nil {
		return nil, err
	}

	if config.Transforms == nil {
		config.Transforms = make(map[string]tt.ConfigTransform)
	}
	for name, override := range overrides {
		cfg := config.Transforms[name]
		if override.Module != "" {
			cfg.Module = override.Module
		}
		if override.Phase != "" {
			cfg.Phase = override.Phase
		}
		config.Transforms[name] = cfg
	}

	return internal.NewEngine(config.Transforms)
}

// ProcessFiles runs the processor over every path, recursing into
// directories, and aggregates the changes.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine TransformEngine,
	paths []string,
	processor Processor,
) ([]tt.Change, error) {
	var allChanges []tt.Change
	for _, path := range paths {
		changes, err := ProcessPath(ctx, logger, engine, path, processor)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		allChanges = append(allChanges, changes...)
	}

	return allChanges, nil
}

// ProcessPath processes one file, or every AST document under one directory
// with a bounded worker pool and a progress bar.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine TransformEngine,
	path string,
	processor Processor,
) ([]tt.Change, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	var changes []tt.Change
	if info.IsDir() {
		var files []string
		filepath.Walk(path, func(filePath string, fileInfo os.FileInfo, err error) error {
			if err == nil && !fileInfo.IsDir() && hasDesiredExtension(filePath) {
				files = append(files, filePath)
			}
			return nil
		})

		resultChan := make(chan []tt.Change, len(files))
		errorChan := make(chan error, len(files))

		maxWorkers := runtime.NumCPU()
		sem := make(chan struct{}, maxWorkers)

		bar := progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription(path),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))

		var wg sync.WaitGroup
		for _, filePath := range files {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
				sem <- struct{}{}
				wg.Add(1)
				go func(fp string) {
					defer func() { <-sem; wg.Done() }()

					fileChanges, err := processor(engine, fp)
					if err != nil {
						if logger != nil {
							logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
						}
						errorChan <- err
						resultChan <- nil
					} else {
						resultChan <- fileChanges
						errorChan <- nil
					}
					bar.Add(1)
				}(filePath)
			}
		}
		wg.Wait()

		// each worker sends on both channels, so both must be read every
		// iteration or the pairing drifts
		for range files {
			err := <-errorChan
			result := <-resultChan
			if err != nil {
				continue
			}
			if result != nil {
				changes = append(changes, result...)
			}
		}

		fmt.Println()
		return changes, nil
	} else if hasDesiredExtension(path) {
		fileChanges, err := processor(engine, path)
		if err != nil {
			return nil, err
		}
		changes = append(changes, fileChanges...)
	}

	return changes, nil
}

// ProcessFile is the default Processor: it transforms the file and discards
// the rewritten document.
func ProcessFile(engine TransformEngine, filePath string) ([]tt.Change, error) {
	changes, _, err := engine.Run(filePath)
	return changes, err
}

// WriteProcessor returns a Processor that writes the rewritten document back
// to the source file whenever a transform changed it.
func WriteProcessor() Processor {
	return func(engine TransformEngine, filePath string) ([]tt.Change, error) {
		changes, output, err := engine.Run(filePath)
		if err != nil {
			return nil, err
		}
		if len(changes) > 0 {
			if err := os.WriteFile(filePath, output, 0o644); err != nil {
				return nil, fmt.Errorf("error writing %s: %w", filePath, err)
			}
		}
		return changes, nil
	}
}

func hasDesiredExtension(path string) bool {
	return filepath.Ext(path) == ".json"
}

// Config represents the overall configuration with a name and the
// per-transform option records.
type Config struct {
	Name       string                        `yaml:"name"`
	Transforms map[string]tt.ConfigTransform `yaml:"transforms"`
}

func parseConfigurationFile(configurationPath string) (Config, error) {
	var config Config
	if configurationPath == "" {
		// fall back to the conventional file when one exists
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return config, nil
		}
		configurationPath = defaultConfigFile
	}

	f, err := os.Open(configurationPath)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
