// Command stagesim runs the enemy and honey stage simulation.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/comalice/tickfsm/internal/cliconfig"
)

var exampleUsage = strings.TrimSpace(`
  stagesim --ticks 600 --dot stage.dot
  stagesim --tui
  STAGESIM_LOG_LEVEL=debug stagesim --config ./stagesim.toml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath, envPath string

	root := &cobra.Command{
		Use:   "stagesim",
		Short: "Run the enemy and honey state machines on a fixed-rate tick loop",
		Long: strings.TrimSpace(`
The enemy walks to the sea, hunts a fish and carries it home. If honey is
waiting there he hands it over, otherwise he eats it. Honey waits, walks,
and drops everything to eat a fish she is given.

Settings come from defaults, then the config file, then STAGESIM_*
environment variables (and a .env file), then flags.`),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if err := resolveConfig(&cfg, cfgPath, envPath, changed); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := run(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "stagesim:", err)
			}
			return err
		},
	}

	f := root.Flags()
	f.StringVar(&cfgPath, "config", "", "config file (default $HOME/.stagesim/config.toml)")
	f.StringVar(&envPath, "env-file", ".env", "dotenv file loaded before reading STAGESIM_* variables")
	f.IntVar(&cfg.Ticks, "ticks", cfg.Ticks, "run this many ticks in simulated time and exit (0 runs in real time until interrupted)")
	f.DurationVar(&cfg.TickRate, "tick-rate", cfg.TickRate, "time between ticks")
	f.BoolVar(&cfg.FixedDelta, "fixed-delta", cfg.FixedDelta, "pass tick-rate as the frame delta instead of measured wall time")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	f.BoolVar(&cfg.LogConsole, "log-console", cfg.LogConsole, "human readable logs instead of JSON")
	f.BoolVar(&cfg.TUI, "tui", cfg.TUI, "draw the stage in the terminal (q or Esc to quit)")
	f.StringVar(&cfg.DOTPath, "dot", cfg.DOTPath, "write both transition graphs as Graphviz DOT on exit")
	f.StringVar(&cfg.OTLPEndpoint, "otlp-endpoint", cfg.OTLPEndpoint, "OTLP/HTTP endpoint URL for tick spans")
	f.StringVar(&cfg.ServiceName, "service-name", cfg.ServiceName, "service name reported with traces")
	f.StringVar(&cfg.EnemyTopology, "enemy-topology", cfg.EnemyTopology, "enemy transition document (yaml, toml or json)")
	f.StringVar(&cfg.HoneyTopology, "honey-topology", cfg.HoneyTopology, "honey transition document (yaml, toml or json)")
	f.IntVar(&cfg.MaxCascadeDepth, "max-cascade-depth", cfg.MaxCascadeDepth, "limit on dispatches nested inside hooks (0 disables)")
	f.Float64Var(&cfg.EnemySpeed, "enemy-speed", cfg.EnemySpeed, "enemy speed in units per second")
	f.Float64Var(&cfg.HoneySpeed, "honey-speed", cfg.HoneySpeed, "honey speed in units per second")
	f.DurationVar(&cfg.HuntTime, "hunt-time", cfg.HuntTime, "how long the enemy hunts")
	f.DurationVar(&cfg.HoneyWaitTime, "honey-wait", cfg.HoneyWaitTime, "how long honey waits at home")

	return root
}

// resolveConfig layers file, dotenv and environment values under the flags
// in changed, then validates.
func resolveConfig(cfg *cliconfig.Config, cfgPath, envPath string, changed map[string]bool) error {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && (cfgPath != "" || cliconfig.FileExists(cfgFile)) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	}

	if envPath != "" {
		if err := cliconfig.LoadDotEnv(envPath); err != nil {
			return err
		}
	}
	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}
	return cfg.Validate()
}
