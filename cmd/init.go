package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/studycal/internal/appdir"
	"github.com/nibzard/studycal/internal/config"
)

// initCommand writes an example project config and creates the data
// directory.
func (a *app) initCommand(args []string) error {
	fs := flag.NewFlagSet("studycal init", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	path := fs.String("config", appdir.DefaultConfigFile, "Config file to write")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if err := appdir.Ensure(a.cfg.DataDir); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	fmt.Fprintf(a.out, "Data directory: %s\n", a.cfg.DataDir)

	if _, err := os.Stat(*path); err == nil && !*force {
		fmt.Fprintf(a.out, "Skipping %s (already exists, use -force to overwrite)\n", *path)
		return nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", *path, err)
	}

	if err := os.WriteFile(*path, []byte(config.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", *path, err)
	}
	fmt.Fprintf(a.out, "Wrote %s\n", *path)
	return nil
}
