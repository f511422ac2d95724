package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/ruminaider/combobox/internal/config"
	"github.com/ruminaider/combobox/internal/logging"
	"github.com/ruminaider/combobox/internal/paths"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "combobox",
	Short: "Pick values from a searchable dropdown in the terminal",
	Long: "combobox renders a dropdown select with search, keyboard and mouse navigation, " +
		"and single or multiple selection. Options come from a YAML file or stdin; " +
		"the chosen values are printed to stdout.",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("combobox %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(configCmd)
}

// session is the per-command environment shared by every subcommand.
type session struct {
	settings *config.Manager
	log      zerolog.Logger
	closer   io.Closer
}

// openSession loads settings, binding the given setting keys to the
// command's flags of the same name, and opens the log file.
func openSession(cmd *cobra.Command, keys ...string) (*session, error) {
	m := config.NewManager(paths.ConfigFile(), zerolog.Nop())
	for _, k := range keys {
		if err := m.BindFlag(k, cmd.Flags().Lookup(flagName(k))); err != nil {
			return nil, err
		}
	}
	if err := m.Load(); err != nil {
		return nil, err
	}

	s := m.Settings()
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(s.Log.Level, logCfg.Level)
	logCfg.Format = s.Log.Format
	logCfg.File = s.Log.File
	if logCfg.File == "" {
		logCfg.File = paths.LogFile()
	}
	logCfg = logging.ApplyEnv(logCfg)

	log, closer, err := logging.New(logCfg)
	if err != nil {
		return nil, err
	}
	log = log.With().Str("command", cmd.Name()).Logger()
	m.SetLogger(log.With().Str("component", "settings").Logger())
	cmd.SetContext(logging.WithContext(cmd.Context(), log))
	return &session{settings: m, log: log, closer: closer}, nil
}

func (s *session) Close() error {
	return s.closer.Close()
}

// flagName maps a settings key to its flag, e.g. max_visible to max-visible.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
