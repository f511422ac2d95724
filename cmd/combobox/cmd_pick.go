package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/termenv"
	"github.com/ruminaider/combobox/cmd/combobox/tui"
	"github.com/ruminaider/combobox/internal/config"
	"github.com/ruminaider/combobox/internal/logging"
	"github.com/ruminaider/combobox/internal/paths"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// errCancelled makes the process exit non-zero without printing anything.
var errCancelled = errors.New("cancelled")

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Choose one or more options interactively",
	Long: `Shows a dropdown with the options from --file, or one option per line of
stdin, and prints the chosen value(s) to stdout. Exits 1 when cancelled.`,
	RunE: runPick,
}

func init() {
	definePickFlags(pickCmd.Flags())
}

// pickSettings are the settings keys pick binds to flags of the same name.
var pickSettings = []string{"multiple", "placeholder", "max_visible", "width", "offset", "size", "shadow", "variant"}

func definePickFlags(f *pflag.FlagSet) {
	f.StringP("file", "f", "", "options YAML file or name of a list in ~/.combobox/options (default: read lines from stdin)")
	f.Bool("multiple", false, "allow choosing several values")
	f.String("placeholder", "", "text shown when nothing is selected")
	f.Bool("search", true, "filter options by typing")
	f.Bool("no-search", false, "disable the search field")
	f.Bool("fuzzy", false, "use fuzzy matching instead of substring")
	f.Int("max-visible", 0, "visible list rows")
	f.Int("width", 0, "trigger width")
	f.Int("offset", 0, "rows between the trigger and the list")
	f.String("size", "", "sm, md or lg")
	f.String("shadow", "", "none, soft or hard")
	f.String("variant", "", "default, primary or danger")
	f.Bool("watch", false, "reload the options file and settings when they change")
	f.String("separator", "\n", "separator between values in multiple mode")
}

// applySearchFlags applies the flags that don't map one-to-one onto a setting.
func applySearchFlags(f *pflag.FlagSet, s config.Settings) config.Settings {
	if f.Changed("search") {
		s.Searchable, _ = f.GetBool("search")
	}
	if noSearch, _ := f.GetBool("no-search"); noSearch {
		s.Searchable = false
	}
	if fuzzy, _ := f.GetBool("fuzzy"); fuzzy {
		s.Match = tui.MatchFuzzy.String()
	}
	return s
}

func runPick(cmd *cobra.Command, args []string) error {
	// The UI renders on stderr so stdout stays clean for the result.
	if !term.IsTerminal(os.Stderr.Fd()) {
		return fmt.Errorf("pick needs a terminal on stderr")
	}

	sess, err := openSession(cmd, pickSettings...)
	if err != nil {
		return err
	}
	defer sess.Close()

	file, _ := cmd.Flags().GetString("file")
	file = resolveOptionsPath(file)
	opts, fromStdin, err := readOptions(file)
	if err != nil {
		return err
	}

	settings := applySearchFlags(cmd.Flags(), sess.settings.Settings())
	if opts.Placeholder != "" && !cmd.Flags().Changed("placeholder") {
		settings.Placeholder = opts.Placeholder
	}

	lipgloss.SetColorProfile(termenv.NewOutput(os.Stderr).EnvColorProfile())

	layout := tui.NewZoneLayout()
	defer layout.Close()

	log := logging.FromContext(logging.WithComponent(cmd.Context(), "pick"))
	sel := tui.New(selectConfig(settings, layout, log), toOptions(opts), tui.Uncontrolled(tui.NoValue[string]()))
	model := newPicker("", sel, *log).withScan(layout.Scan)

	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithOutput(os.Stderr),
	}
	if fromStdin {
		progOpts = append(progOpts, tea.WithInputTTY())
	}
	p := tea.NewProgram(model, progOpts...)

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		stop, err := watchSources(p, sess, file)
		if err != nil {
			return err
		}
		defer stop()
	}

	final, err := p.Run()
	if err != nil {
		return err
	}
	result, ok := final.(picker).Result()
	if !ok {
		sess.log.Info().Msg("pick cancelled")
		cmd.SilenceErrors = true
		return errCancelled
	}

	sep, _ := cmd.Flags().GetString("separator")
	if out := formatSelection(result, sep); out != "" {
		fmt.Println(out)
	}
	return nil
}

// resolveOptionsPath maps a bare name such as "fruits" to a named list under
// ~/.combobox/options when no such file exists in the working directory.
func resolveOptionsPath(name string) string {
	if name == "" || strings.ContainsRune(name, filepath.Separator) || filepath.Ext(name) != "" {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return paths.OptionsFile(name)
}

// readOptions loads options from path, or from stdin when path is empty.
func readOptions(path string) (config.OptionsFile, bool, error) {
	if path != "" {
		f, err := config.LoadOptions(path)
		return f, false, err
	}
	if term.IsTerminal(os.Stdin.Fd()) {
		return config.OptionsFile{}, false, fmt.Errorf("no options: pass --file or pipe one option per line")
	}
	f, err := config.ReadLines(os.Stdin)
	return f, true, err
}

// watchSources forwards options-file and settings changes into the program.
func watchSources(p *tea.Program, sess *session, file string) (func(), error) {
	sess.settings.OnChange(func(s config.Settings) {
		p.Send(settingsChangedMsg{settings: s})
	})
	sess.settings.Watch()

	if file == "" {
		return func() {}, nil
	}
	w, err := config.WatchOptions(file, sess.log, func(f config.OptionsFile, err error) {
		p.Send(optionsReloadedMsg{file: f, err: err})
	})
	if err != nil {
		return nil, err
	}
	return func() { w.Close() }, nil
}
