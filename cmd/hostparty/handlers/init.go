package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/hostparty/hostparty/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// runWizard asks for the settings of the new configuration.
	runWizard = config.RunWizard

	// writeConfig saves the configuration.
	writeConfig = config.Write

	// fileExists reports whether a file already exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}
)

// Init handles the init command.
//
// It runs the interactive wizard and writes the resulting configuration to
// outputPath, refusing to replace an existing file unless force is set.
func Init(ctx context.Context, outputPath string, force bool) error {
	outputPath = config.ResolvePath(outputPath)
	if fileExists(outputPath) && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", outputPath)
	}

	registry := newRegistry()
	result, err := runWizard(ctx, registry.InstanceNames(), registry.DNSNames())
	if err != nil {
		return err
	}

	cfg, err := result.ToConfig()
	if err != nil {
		return err
	}

	if err := writeConfig(cfg, outputPath, force); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Configuration written to %s\n", outputPath)
	fmt.Fprintln(stdout, "Provider credentials are read from the environment or from the args section of each provider.")
	return nil
}
