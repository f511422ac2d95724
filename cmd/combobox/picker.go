package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/ruminaider/combobox/cmd/combobox/tui"
	"github.com/ruminaider/combobox/internal/config"
)

// optionsReloadedMsg carries a re-parsed options file from the watcher.
type optionsReloadedMsg struct {
	file config.OptionsFile
	err  error
}

// settingsChangedMsg carries reloaded settings from the watcher.
type settingsChangedMsg struct {
	settings config.Settings
}

// pickerKeyMap holds the host's bindings next to the Select's own.
type pickerKeyMap struct {
	sel    tui.KeyMap
	Done   key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return append(k.sel.ShortHelp(), k.Done, k.Cancel)
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return append(k.sel.FullHelp(), []key.Binding{k.Done, k.Cancel, k.Quit})
}

func newPickerKeyMap(sel tui.KeyMap) pickerKeyMap {
	return pickerKeyMap{
		sel: sel,
		Done: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "done"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// picker hosts a single Select full screen. Single selection finishes on the
// first committed value; multiple selection finishes on Done.
type picker struct {
	title      string
	sel        tui.Select[string]
	scan       func(string) string
	keys       pickerKeyMap
	help       help.Model
	controlled bool
	height     int
	status     string
	log        zerolog.Logger

	// async search
	ctx          context.Context
	search       tui.SearchFunc[string]
	cancelSearch context.CancelFunc

	result    tui.Selection[string]
	done      bool
	cancelled bool
}

func newPicker(title string, sel tui.Select[string], log zerolog.Logger) picker {
	sel.Focus()
	return picker{
		title:  title,
		sel:    sel,
		keys:   newPickerKeyMap(sel.KeyMap()),
		help:   help.New(),
		log:    log,
		result: sel.Value(),
		ctx:    context.Background(),
	}
}

// withSearch answers the Select's queries with fn.
func (p picker) withSearch(ctx context.Context, fn tui.SearchFunc[string]) picker {
	p.ctx = ctx
	p.search = fn
	return p
}

// withScan post-processes every frame, e.g. to record zone positions.
func (p picker) withScan(scan func(string) string) picker {
	p.scan = scan
	return p
}

func (p picker) Init() tea.Cmd {
	if p.search == nil {
		return nil
	}
	// Load the unfiltered list.
	return func() tea.Msg {
		return tui.SearchChangeMsg{ID: p.sel.ID(), Query: "", Seq: 0}
	}
}

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.height = msg.Height
		p.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Quit):
			return p.cancel()
		case key.Matches(msg, p.keys.Cancel) && !p.sel.IsOpen():
			return p.cancel()
		case key.Matches(msg, p.keys.Done):
			p.done = true
			p.result = p.sel.Value()
			return p, tea.Quit
		}

	case tui.ChangeMsg[string]:
		if msg.ID != p.sel.ID() {
			return p, nil
		}
		if p.controlled {
			if err := p.sel.SetValue(msg.Selection); err != nil {
				p.log.Error().Err(err).Msg("mirroring selection")
			}
		}
		p.result = msg.Selection
		if !p.sel.Multiple() {
			p.done = true
			return p, tea.Quit
		}
		return p, nil

	case tui.BlurMsg:
		// Only one focusable widget; keep it focused.
		p.sel.Focus()
		return p, nil

	case tui.SearchChangeMsg:
		return p.startSearch(msg)

	case optionsReloadedMsg:
		if msg.err != nil {
			p.status = "reload failed: " + msg.err.Error()
			return p, nil
		}
		p.status = ""
		p.sel.SetOptions(toOptions(msg.file))
		return p, nil

	case settingsChangedMsg:
		p.sel.SetStyles(stylesFor(msg.settings))
		return p, nil
	}

	var cmd tea.Cmd
	p.sel, cmd = p.sel.Update(msg)
	return p, cmd
}

func (p picker) cancel() (tea.Model, tea.Cmd) {
	if p.cancelSearch != nil {
		p.cancelSearch()
	}
	p.cancelled = true
	p.done = true
	return p, tea.Quit
}

func (p picker) startSearch(msg tui.SearchChangeMsg) (tea.Model, tea.Cmd) {
	if p.search == nil || msg.ID != p.sel.ID() {
		return p, nil
	}
	if p.cancelSearch != nil {
		p.cancelSearch()
	}
	ctx, cancel := context.WithCancel(p.ctx)
	p.cancelSearch = cancel
	p.log.Debug().Str("query", msg.Query).Uint64("seq", msg.Seq).Msg("search")
	return p, tea.Batch(p.sel.SetLoading(true), tui.Search(ctx, msg, p.search))
}

func (p picker) View() string {
	if p.done {
		return ""
	}

	var b strings.Builder
	if p.title != "" {
		b.WriteString(tui.HelpStyle.Render(p.title))
		b.WriteString("\n\n")
	}
	b.WriteString(p.sel.View())
	b.WriteString("\n\n")
	if p.status != "" {
		b.WriteString(p.status)
		b.WriteString("\n")
	}
	b.WriteString(p.help.View(p.keys))

	frame := p.sel.Overlay(b.String(), p.height)
	if p.scan != nil {
		frame = p.scan(frame)
	}
	return frame
}

// Result returns the chosen selection and whether the user confirmed it.
func (p picker) Result() (tui.Selection[string], bool) {
	return p.result, p.done && !p.cancelled
}

// --- Settings and option conversion ---

func stylesFor(s config.Settings) tui.StyleSet {
	return tui.ResolveStyles(tui.ParseSize(s.Size), tui.ParseShadow(s.Shadow), tui.ParseVariant(s.Variant))
}

func selectConfig(s config.Settings, layout tui.LayoutProvider, log *zerolog.Logger) tui.Config {
	styles := stylesFor(s)
	return tui.Config{
		Placeholder: s.Placeholder,
		Multiple:    s.Multiple,
		Searchable:  s.Searchable,
		Match:       tui.ParseMatchMode(s.Match),
		MaxVisible:  s.MaxVisible,
		Offset:      s.Offset,
		Width:       s.Width,
		Styles:      &styles,
		Layout:      layout,
		Logger:      log,
	}
}

func toOptions(f config.OptionsFile) []tui.Option[string] {
	opts := make([]tui.Option[string], 0, len(f.Options))
	for _, e := range f.Options {
		opts = append(opts, tui.NewOption(e.Label, e.Value).WithDisabled(e.Disabled).WithIcon(e.Icon))
	}
	return opts
}

// formatSelection renders the chosen values one per line, or joined by sep.
func formatSelection(sel tui.Selection[string], sep string) string {
	if sep == "" {
		sep = "\n"
	}
	return strings.Join(sel.Values(), sep)
}
