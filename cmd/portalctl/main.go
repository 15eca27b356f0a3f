// Command portalctl is a terminal client for the school portal. It keeps its
// credential and preferences in a state file under the user config
// directory.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sadhana-school/portal/internal/infrastructure/backend"
	"github.com/sadhana-school/portal/internal/infrastructure/filestore"
	"github.com/sadhana-school/portal/internal/pkg/config"
	"github.com/sadhana-school/portal/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Output:  os.Stderr,
		Service: "portalctl",
	})

	dir, err := stateDir(cfg.StateDir)
	if err != nil {
		log.Fatal().Err(err).Msg("resolve state directory")
	}
	store, err := filestore.Open(dir)
	if err != nil {
		log.Fatal().Err(err).Msg("open state")
	}

	cli := &commandLine{
		client: backend.New(backend.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout}, logger.Component("backend")),
		store:  store,
		log:    log,
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(1)
	}
}

func stateDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "portalctl"), nil
}
