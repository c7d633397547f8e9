// Command ls-exoplanets is a terminal 3D map of known exoplanet systems.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-exoplanets/internal/catalog"
	"github.com/litescript/ls-exoplanets/internal/version"
)

// options holds the flags that are not configuration keys.
type options struct {
	configPath   string
	summary      bool
	snapshotPath string
	at           time.Duration
	seed         int64

	maxDistance float64
	telescope   float64
	wavelength  float64
	esi         float64
	method      string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "ls-exoplanets",
		Short:        "Explore the exoplanet catalog as a 3D star map in your terminal",
		Version:      version.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := criteriaFromFlags(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd, opts, criteria)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Config file (yaml, toml or json)")
	f.String("api-url", catalog.DefaultBaseURL, "Catalog service base URL")
	f.Duration("timeout", catalog.DefaultTimeout, "HTTP request timeout")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-file", "", "Write logs to this file")
	f.String("cache", "", "SQLite catalog cache used when the service is unreachable")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	f.BoolVar(&opts.summary, "summary", false, "Print text summary instead of TUI")
	f.StringVar(&opts.snapshotPath, "snapshot-path", "", "Export the composed scene as JSON (use - for stdout)")
	f.DurationVar(&opts.at, "at", 0, "Scene time for --snapshot-path (e.g. 30s)")
	f.Int64Var(&opts.seed, "seed", 0, "Seed for star glyphs (0 picks one)")

	f.Float64Var(&opts.maxDistance, "filter-max-distance", 0, "Headless filter: maximum distance in light-years")
	f.Float64Var(&opts.telescope, "filter-telescope", 0, "Headless filter: telescope diameter in meters")
	f.Float64Var(&opts.wavelength, "filter-wavelength", 0, "Headless filter: wavelength in micrometers")
	f.Float64Var(&opts.esi, "filter-esi", 0, "Headless filter: minimum Earth similarity index")
	f.StringVar(&opts.method, "filter-method", "", "Headless filter: discovery method")

	return cmd
}

// criteriaFromFlags builds filter criteria from the --filter-* flags the
// user set.
func criteriaFromFlags(cmd *cobra.Command, opts options) (catalog.Criteria, error) {
	var c catalog.Criteria
	set := func(name string, v float64) *float64 {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return catalog.Float(v)
	}

	c.MaxDistance = set("filter-max-distance", opts.maxDistance)
	c.TelescopeDiameter = set("filter-telescope", opts.telescope)
	c.Wavelength = set("filter-wavelength", opts.wavelength)
	c.ESIThreshold = set("filter-esi", opts.esi)
	if cmd.Flags().Changed("filter-method") {
		m := catalog.DiscoveryMethod(opts.method)
		c.DiscoveryMethod = &m
	}

	if err := c.Validate(); err != nil {
		return catalog.Criteria{}, err
	}
	return c, nil
}
