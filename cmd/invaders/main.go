// invaders is a Space Invaders clone that runs in the terminal.
//
// Usage:
//
//	invaders                 - Play a game
//	invaders keys            - Show the controls
//	invaders backends        - List terminal backends
//
// Global flags:
//
//	--config <path>     - Use a custom config YAML
//	--backend <name>    - Terminal backend (tcell, ansi)
//	--mute              - Disable sound
//	--log-file <path>   - Log file ("" disables logging)
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term-invaders/internal/config"
	"github.com/vovakirdan/term-invaders/internal/registry"

	// Import backends to register them
	_ "github.com/vovakirdan/term-invaders/internal/platform/term"
)

var (
	// Global flags
	flagConfig  string
	flagBackend string
	flagMute    bool
	flagLogFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "invaders",
	Short: "Terminal Invaders - shoot down the formation before it lands",
	Long: `Terminal Invaders is a Space Invaders clone on a 40x20 grid.

Move your ship along the bottom row and shoot every invader before the
formation reaches you. The formation speeds up as it thins out.

Available commands:
  keys      - Show the controls
  backends  - List terminal backends

Examples:
  invaders
  invaders --mute
  invaders --backend ansi
  invaders --config ./my-invaders.yaml`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGame,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Terminal backend: tcell, ansi (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagMute, "mute", false, "Disable sound")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file path, empty to disable (default from config)")

	// Add subcommands
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(backendsCmd)
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagBackend != "" {
		if !registry.Exists(flagBackend) {
			return cfg, fmt.Errorf("unknown backend %q (available: %s)", flagBackend, backendNames())
		}
		cfg.Terminal.Backend = flagBackend
	}
	if flagMute {
		cfg.Audio.Enabled = false
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = flagLogFile
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// backendNames lists the registered backends for error messages.
func backendNames() string {
	backends := registry.List()
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.Name
	}
	return strings.Join(names, ", ")
}
