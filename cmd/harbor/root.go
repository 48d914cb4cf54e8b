package main

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wallforfry/harbor/internal/cache"
	"github.com/wallforfry/harbor/internal/config"
	"github.com/wallforfry/harbor/internal/locale"
	"github.com/wallforfry/harbor/internal/logging"
	"github.com/wallforfry/harbor/internal/registry"
	"github.com/wallforfry/harbor/internal/tui"
)

// env is what every command needs once flags and config are resolved.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	client *registry.Client
}

// offline commands run without a configured registry
var offline = map[string]bool{
	"version":                       true,
	"help":                          true,
	"completion":                    true,
	cobra.ShellCompRequestCmd:       true,
	cobra.ShellCompNoDescRequestCmd: true,
}

// skipSetup reports whether cmd or one of its parents is an offline command.
func skipSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if offline[c.Name()] {
			return true
		}
	}
	return false
}

// flag name -> config key
var flagKeys = map[string]string{
	"registry": "registry_url",
	"lang":     "language",
	"log-file": "log_file",
	"debug":    "debug",
}

func newRootCmd() *cobra.Command {
	e := &env{}
	var cfgFile string

	root := &cobra.Command{
		Use:   "harbor",
		Short: "Browse the images of a Docker registry",
		Long: `harbor is a terminal browser for Docker Registry v2 servers.

Run without arguments to start the interactive interface. The registry is
read from --registry, HARBOR_REGISTRY_URL or the config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipSetup(cmd) {
				return nil
			}
			return e.setup(cmd, cfgFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.runTUI(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $HARBOR_CONFIG or ~/.config/harbor/config.yaml)")
	pf.String("registry", "", "registry URL, e.g. https://registry.example.com")
	pf.Bool("insecure", false, "skip TLS certificate verification")
	pf.String("lang", "", "interface language")
	pf.String("log-file", "", "write logs to this file")
	pf.Bool("debug", false, "log at debug level")

	root.AddCommand(newListCmd(e), newInspectCmd(e), newManifestCmd(e), newVersionCmd())
	return root
}

func (e *env) setup(cmd *cobra.Command, cfgFile string) error {
	v := config.New(cfgFile)
	if err := bindFlags(cmd, v); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return err
	}

	client, err := registry.New(registry.Options{
		URL:      cfg.RegistryURL,
		CheckTLS: cfg.CheckTLS,
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  cfg.Timeout,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	e.cfg = cfg
	e.log = log
	e.client = client
	log.Debug("configured", zap.String("registry", client.BaseURL()), zap.String("config", v.ConfigFileUsed()))
	return nil
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	flags := cmd.Flags()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	if flags.Changed("lang") {
		lang, err := flags.GetString("lang")
		if err != nil {
			return err
		}
		if !slices.Contains(locale.Available(), lang) {
			return fmt.Errorf("unknown language %q (available: %s)", lang, strings.Join(locale.Available(), ", "))
		}
	}
	if flags.Changed("insecure") {
		insecure, err := flags.GetBool("insecure")
		if err != nil {
			return err
		}
		v.Set("check_tls", !insecure)
	}
	return nil
}

func (e *env) runTUI(cmd *cobra.Command) error {
	lang, code, err := locale.Load(e.cfg.Language)
	if err != nil {
		return err
	}
	if code != e.cfg.Language {
		e.log.Warn("language not available, using fallback", zap.String("language", e.cfg.Language), zap.String("fallback", code))
	}

	if err := e.client.Ping(cmd.Context()); err != nil {
		return err
	}

	imgCache, err := cache.NewImageCache(e.cfg.Cache.Dir, e.cfg.Cache.SizeMB, e.cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := imgCache.Evict(); err != nil {
		e.log.Warn("evict cache", zap.Error(err))
	}

	app := tui.NewApp(e.cfg, lang, e.client, imgCache, e.log)
	app.SetVersion(version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
