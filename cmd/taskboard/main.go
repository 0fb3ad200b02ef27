package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/app"
	"github.com/nhle/taskboard/internal/gateway"
	"github.com/nhle/taskboard/internal/logger"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/session"
)

// version is set via ldflags at release time.
var version = "dev"

var cli struct {
	Config   string           `help:"Path to the configuration file." type:"path"`
	Endpoint string           `help:"GraphQL API endpoint, overrides the configured one."`
	Debug    bool             `help:"Enable debug logging."`
	Version  kong.VersionFlag `help:"Print version and exit."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("taskboard"),
		kong.Description("Terminal client for the taskboard project tracker."),
		kong.Vars{"version": version},
	)
	ctx.FatalIfErrorf(run())
}

func run() error {
	configPath := cli.Config
	if configPath == "" {
		configPath = model.DefaultConfigPath()
	}

	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cli.Endpoint != "" {
		cfg.Endpoint = cli.Endpoint
	}

	log := logger.Setup(model.DefaultLogPath(), cli.Debug)
	log.Info().
		Str("version", version).
		Str("endpoint", cfg.Endpoint).
		Msg("starting taskboard")

	sess := session.NewKeyring()

	gw := gateway.New(cfg.Endpoint, sess, log).
		WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		})

	root := app.New(gw, sess, log)
	p := tea.NewProgram(root, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
