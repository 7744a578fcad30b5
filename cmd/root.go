package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/fmuoria/interview-organizer/internal/config"
	"github.com/fmuoria/interview-organizer/internal/dispatch"
	"github.com/fmuoria/interview-organizer/internal/logger"
	"github.com/fmuoria/interview-organizer/internal/metrics"
	"github.com/fmuoria/interview-organizer/internal/notify"
	"github.com/fmuoria/interview-organizer/internal/roster"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "interview-organizer",
	Short: "Organize candidate groups, interview panels and schedule notifications",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional
		_ = godotenv.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (default: per-user config directory)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration and applies the log level
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		p, err := config.DefaultPath()
		if err == nil {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	return cfg, nil
}

// runtime is everything a command surface needs
type runtime struct {
	cfg        *config.Config
	roster     *roster.Roster
	settings   *config.LiveSettings
	dispatcher *dispatch.Dispatcher
	registry   *prometheus.Registry
}

// bootstrap loads the rosters and settings and wires the notifier and
// dispatcher. A roster problem is fatal; a bad settings file is logged and
// defaults are used.
func bootstrap(component string) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logg := logger.New(component)

	r, err := roster.Load(cfg.Roster.Candidates, cfg.Roster.Panel)
	if err != nil {
		return nil, err
	}
	logg.Infof("loaded %d candidates and %d panel members", len(r.Candidates()), len(r.PanelMembers()))

	store := config.NewSettingsStore(cfg.Settings.Path)
	current, err := store.Load()
	if err != nil {
		logg.Warnf("using default settings: %v", err)
	}
	live := config.NewLiveSettings(store, current)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec, err := metrics.NewPromRecorder(reg)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	notifier := notify.New(live.Get, notify.WithLogger(logger.New("notify")))
	d := dispatch.New(r, notifier,
		dispatch.WithLogger(logger.New("dispatch")),
		dispatch.WithMetrics(rec),
	)

	return &runtime{
		cfg:        cfg,
		roster:     r,
		settings:   live,
		dispatcher: d,
		registry:   reg,
	}, nil
}
