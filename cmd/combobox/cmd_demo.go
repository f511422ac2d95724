package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/ruminaider/combobox/cmd/combobox/tui"
	"github.com/ruminaider/combobox/internal/logging"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Try a controlled select backed by a slow remote search",
	Long: `Runs a select whose options come from a simulated remote search with the
given latency. Every keystroke issues a new query; stale answers are dropped.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().Bool("multiple", false, "allow choosing several values")
	demoCmd.Flags().Duration("latency", 400*time.Millisecond, "simulated search latency")
	demoCmd.Flags().Bool("fail", false, "make every search fail")
}

// demoLanguages is the catalogue searched by the demo.
var demoLanguages = []tui.Option[string]{
	tui.NewOption("Go", "go").WithIcon("🐹"),
	tui.NewOption("Rust", "rust").WithIcon("🦀"),
	tui.NewOption("Python", "python").WithIcon("🐍"),
	tui.NewOption("TypeScript", "typescript"),
	tui.NewOption("JavaScript", "javascript"),
	tui.NewOption("Haskell", "haskell"),
	tui.NewOption("OCaml", "ocaml"),
	tui.NewOption("Elixir", "elixir"),
	tui.NewOption("Erlang", "erlang"),
	tui.NewOption("Zig", "zig"),
	tui.NewOption("C", "c"),
	tui.NewOption("C++", "cpp"),
	tui.NewOption("Java", "java"),
	tui.NewOption("Kotlin", "kotlin"),
	tui.NewOption("Swift", "swift"),
	tui.NewOption("COBOL", "cobol").WithDisabled(true),
	tui.NewOption("Fortran", "fortran").WithDisabled(true),
}

var errSearchUnavailable = errors.New("search backend unavailable")

func runDemo(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("demo needs an interactive terminal")
	}

	sess, err := openSession(cmd, "multiple")
	if err != nil {
		return err
	}
	defer sess.Close()

	settings := sess.settings.Settings()
	latency, _ := cmd.Flags().GetDuration("latency")
	search := tui.StaticSearch(demoLanguages, tui.ParseMatchMode(settings.Match), latency)
	if fail, _ := cmd.Flags().GetBool("fail"); fail {
		search = func(context.Context, string) ([]tui.Option[string], error) {
			return nil, errSearchUnavailable
		}
	}

	layout := tui.NewZoneLayout()
	defer layout.Close()

	ctx, cancel := context.WithCancel(logging.WithComponent(cmd.Context(), "demo"))
	defer cancel()
	log := logging.FromContext(ctx)

	cfg := selectConfig(settings, layout, log)
	cfg.AsyncSearch = true
	cfg.Placeholder = "Pick a language"
	sel := tui.New(cfg, nil, tui.Controlled(tui.NoValue[string]()))

	model := newPicker(fmt.Sprintf("Remote search, %s latency", latency), sel, *log).
		withSearch(ctx, search).
		withScan(layout.Scan)
	model.controlled = true

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return err
	}
	result, ok := final.(picker).Result()
	if !ok {
		return nil
	}
	fmt.Println(formatSelection(result, ", "))
	return nil
}
