package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ecmalabs/espatch"
	tt "github.com/ecmalabs/espatch/internal/types"
)

// initCmd: espatch init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new transform configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if path == "" {
			path = ".espatch.yaml"
		}
		if err := initConfigurationFile(path); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		fmt.Printf("Configuration file created/updated: %s\n", path)
	},
}

func initConfigurationFile(configurationPath string) error {

	// Create a yaml file with the default transform options
	config := espatch.Config{
		Name: "espatch",
		Transforms: map[string]tt.ConfigTransform{
			"import-meta-url": {Module: "CommonJS", Phase: "enter"},
		},
	}
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	f, err := os.Create(configurationPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	if err != nil {
		return err
	}

	return nil
}
