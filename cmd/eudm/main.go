package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/eudm/internal/config"
	"github.com/banshee-data/eudm/internal/monitoring"
	"github.com/banshee-data/eudm/internal/road"
	"github.com/banshee-data/eudm/internal/runner"
)

var (
	configPath = flag.String("config", "", "Path to a JSON config (default: search for "+config.DefaultConfigPath+")")
	seed       = flag.Int64("seed", -1, "RNG seed; -1 keeps the configured rng_seed")
	maxSteps   = flag.Int("max-steps", 0, "Override max_steps when positive")
	debug      = flag.Bool("debug", false, "Enable traces and debug logging (clears run_fast)")
	quiet      = flag.Bool("quiet", false, "Suppress diagnostic logging")
)

func main() {
	flag.Parse()

	if *quiet {
		monitoring.SetLogger(nil)
	}

	params, err := loadParams(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	applyFlags(params)

	if err := run(os.Stdout, params); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

// loadParams reads path, falling back to the defaults file and then to the
// built-in defaults.
func loadParams(path string) (*road.Params, error) {
	if path == "" {
		path = config.FindDefaultConfig()
	}
	if path == "" {
		return road.DefaultParams(), nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg.Params(), nil
}

func applyFlags(params *road.Params) {
	if *seed >= 0 {
		params.RNGSeed = *seed
	}
	if *maxSteps > 0 {
		params.MaxSteps = *maxSteps
	}
	if *debug {
		params.RunFast = false
	}
}

func run(w io.Writer, params *road.Params) error {
	res, err := runner.Run(params, runner.DefaultOptions())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
