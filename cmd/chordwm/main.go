package main

import (
	"fmt"
	"os"

	"github.com/1broseidon/chordwm/internal/config"
	"github.com/1broseidon/chordwm/internal/logging"
	"github.com/1broseidon/chordwm/internal/wm"
	"github.com/1broseidon/chordwm/internal/x11"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	configPath  string
	display     string
	logLevel    string
	verifyGrabs bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "chordwm: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "chordwm",
		Short: "Minimal X11 window manager: raise, move and resize with modifier chords",
		Long: `chordwm grabs a modifier chord on the root window and lets you raise
windows with a key, move them with one pointer button and resize them with
another. It does not reparent, decorate or lay out windows.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "path to config file (default ~/.config/chordwm/config.yaml)")
	flags.StringVar(&opts.display, "display", "", "X display to manage (default $DISPLAY)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warning, error")
	flags.BoolVar(&opts.verifyGrabs, "verify-grabs", false, "fail at startup when the X server rejects a grab")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// loadConfig reads the config file and applies the flags that were set on
// the command line.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("display") {
		cfg.Display = opts.display
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("verify-grabs") {
		cfg.VerifyGrabs = opts.verifyGrabs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}

	conn, err := x11.Connect(cfg.Display, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	w, err := wm.New(conn, cfg, log)
	if err != nil {
		return err
	}
	return w.Run()
}
