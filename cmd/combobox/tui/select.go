package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config holds the construction-time settings of a Select. Zero values are
// usable defaults.
type Config struct {
	ID          string // zone and message prefix; generated when empty
	Placeholder string
	Multiple    bool
	Searchable  bool
	AsyncSearch bool // the owner filters; the Select emits SearchChangeMsg
	Match       MatchMode
	Disabled    bool
	MaxVisible  int // visible list rows; defaults to 8
	Offset      int // rows between the trigger and the list
	Width       int // trigger width; the style's MinWidth applies when smaller

	Styles *StyleSet
	KeyMap *KeyMap
	Layout LayoutProvider
	Logger *zerolog.Logger
}

const defaultMaxVisible = 8

// Select is a dropdown/combobox: a trigger showing the current value and a
// floating list of options with optional search.
type Select[V comparable] struct {
	id          string
	options     []Option[V]
	filtered    []Option[V] // options after the current query
	value       valueState[V]
	multiple    bool
	placeholder string
	searchable  bool
	async       bool
	match       MatchMode
	disabled    bool
	loading     bool

	open       bool
	query      string
	focused    int // index into filtered, -1 when nothing is focused
	offset     int // first visible row of the list
	maxVisible int

	hasFocus   bool // keyboard focus
	coords     Coordinates
	positioned bool // coords came from the layout rather than a fallback
	listOffset int
	width      int

	seq uint64 // last issued search sequence

	search  textinput.Model
	spinner spinner.Model
	keys    KeyMap
	styles  StyleSet
	layout  LayoutProvider
	log     zerolog.Logger
}

// New creates a Select over opts. src fixes, for the widget's whole life,
// whether the value is owned by the Select or by the caller.
func New[V comparable](cfg Config, opts []Option[V], src ValueSource[V]) Select[V] {
	s := Select[V]{
		id:          cfg.ID,
		multiple:    cfg.Multiple,
		placeholder: cfg.Placeholder,
		searchable:  cfg.Searchable || cfg.AsyncSearch,
		async:       cfg.AsyncSearch,
		match:       cfg.Match,
		disabled:    cfg.Disabled,
		focused:     -1,
		maxVisible:  cfg.MaxVisible,
		listOffset:  cfg.Offset,
		width:       cfg.Width,
		keys:        DefaultKeyMap(),
		styles:      DefaultStyles(),
		layout:      cfg.Layout,
		value:       newValueState(src, cfg.Multiple),
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.maxVisible <= 0 {
		s.maxVisible = defaultMaxVisible
	}
	if cfg.Styles != nil {
		s.styles = *cfg.Styles
	}
	if cfg.KeyMap != nil {
		s.keys = *cfg.KeyMap
	}
	if s.layout == nil {
		s.layout = NewStaticLayout()
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	s.log = logger.With().Str("component", "select").Str("select_id", s.id).Logger()

	s.search = textinput.New()
	s.search.Prompt = ""
	s.search.CharLimit = 256
	s.search.Cursor.SetMode(cursor.CursorStatic)
	s.search.PlaceholderStyle = s.styles.Placeholder

	s.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.styles.Loading))

	s.setOptions(opts)
	return s
}

// --- Accessors ---

// ID returns the identifier carried by emitted messages.
func (s Select[V]) ID() string { return s.id }

// Value returns the current selection.
func (s Select[V]) Value() Selection[V] { return s.value.current() }

// Controlled reports whether the caller owns the value.
func (s Select[V]) Controlled() bool { return s.value.external }

// Multiple reports whether the Select is in multi-select mode.
func (s Select[V]) Multiple() bool { return s.multiple }

// IsOpen reports whether the list is shown.
func (s Select[V]) IsOpen() bool { return s.open }

// Query returns the current search query.
func (s Select[V]) Query() string { return s.query }

// FocusedIndex returns the index of the focused row in Filtered, or -1.
func (s Select[V]) FocusedIndex() int { return s.focused }

// Filtered returns the options currently listed.
func (s Select[V]) Filtered() []Option[V] { return s.filtered }

// Options returns the full option list.
func (s Select[V]) Options() []Option[V] { return s.options }

// Loading reports whether the loading indicator is shown.
func (s Select[V]) Loading() bool { return s.loading }

// Focused reports whether the Select has keyboard focus.
func (s Select[V]) Focused() bool { return s.hasFocus }

// Coordinates returns where the list is drawn while open.
func (s Select[V]) Coordinates() Coordinates { return s.coords }

// KeyMap returns the active keybindings, for use with bubbles/help.
func (s Select[V]) KeyMap() KeyMap { return s.keys }

// --- Setters ---

// SetOptions replaces the option list. The last options given are
// authoritative; in async mode they are listed exactly as supplied.
func (s *Select[V]) SetOptions(opts []Option[V]) {
	s.setOptions(opts)
}

// SetLoading toggles the loading indicator. The returned command starts the
// spinner.
func (s *Select[V]) SetLoading(loading bool) tea.Cmd {
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

// ApplyResults installs async search results unless a newer query has been
// issued since they were requested. It reports whether they were applied.
func (s *Select[V]) ApplyResults(res SearchResults[V]) bool {
	if res.Seq < s.seq {
		s.log.Debug().Uint64("seq", res.Seq).Uint64("latest", s.seq).Msg("discarding stale search results")
		return false
	}
	s.loading = false
	s.setOptions(res.Options)
	return true
}

// SetValue mirrors the owner's value into a controlled Select.
func (s *Select[V]) SetValue(sel Selection[V]) error {
	if err := s.value.mirror(sel); err != nil {
		return fmt.Errorf("select %s: %w", s.id, err)
	}
	return nil
}

// SetDisabled enables or disables the Select. Disabling closes the list; the
// returned command resets an async query, if any.
func (s *Select[V]) SetDisabled(disabled bool) tea.Cmd {
	s.disabled = disabled
	if disabled && s.open {
		return s.closeList()
	}
	return nil
}

// SetWidth sets the trigger width.
func (s *Select[V]) SetWidth(w int) {
	s.width = w
	if s.open {
		s.reposition()
	}
}

// SetStyles swaps the style set, e.g. after a settings reload.
func (s *Select[V]) SetStyles(styles StyleSet) {
	s.styles = styles
	s.search.PlaceholderStyle = styles.Placeholder
	s.spinner.Style = styles.Loading
}

// Focus gives the Select keyboard focus.
func (s *Select[V]) Focus() {
	s.hasFocus = true
}

// Blur removes keyboard focus and closes the list. The returned command
// resets an async query, if any.
func (s *Select[V]) Blur() tea.Cmd {
	s.hasFocus = false
	if s.open {
		return s.closeList()
	}
	return nil
}

// --- Update ---

// Update handles key, mouse, layout, and async messages.
func (s Select[V]) Update(msg tea.Msg) (Select[V], tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.disabled || !s.hasFocus {
			return s, nil
		}
		if s.open {
			return s.updateOpen(msg)
		}
		return s.updateClosed(msg)

	case tea.MouseMsg:
		if s.disabled {
			return s, nil
		}
		return s.updateMouse(msg)

	case tea.WindowSizeMsg, LayoutChangedMsg:
		if s.open {
			s.reposition()
		}

	case SearchResults[V]:
		if msg.ID == s.id {
			s.ApplyResults(msg)
		}

	case SearchFailedMsg:
		if msg.ID == s.id && msg.Seq >= s.seq {
			s.loading = false
			s.log.Warn().Err(msg.Err).Uint64("seq", msg.Seq).Msg("search failed")
		}

	case spinner.TickMsg:
		if s.loading {
			var cmd tea.Cmd
			s.spinner, cmd = s.spinner.Update(msg)
			return s, cmd
		}
	}
	return s, nil
}

func (s Select[V]) updateClosed(msg tea.KeyMsg) (Select[V], tea.Cmd) {
	switch {
	case key.Matches(msg, s.keys.Open):
		return s, s.openList()
	case key.Matches(msg, s.keys.Remove):
		return s, s.removeLast()
	}
	return s, nil
}

func (s Select[V]) updateOpen(msg tea.KeyMsg) (Select[V], tea.Cmd) {
	switch {
	case key.Matches(msg, s.keys.Close):
		return s, s.closeList()

	case key.Matches(msg, s.keys.Leave):
		reset := s.closeList()
		s.hasFocus = false
		id, reverse := s.id, msg.String() == "shift+tab"
		return s, tea.Batch(reset, func() tea.Msg {
			return BlurMsg{ID: id, Reverse: reverse}
		})

	case key.Matches(msg, s.keys.Down):
		s.moveFocus(+1)
		return s, nil

	case key.Matches(msg, s.keys.Up):
		s.moveFocus(-1)
		return s, nil

	case key.Matches(msg, s.keys.Commit):
		return s, s.commitFocused()

	case key.Matches(msg, s.keys.Remove) && s.query == "":
		return s, s.removeLast()
	}

	if !s.searchable {
		return s, nil
	}

	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if q := s.search.Value(); q != s.query {
		return s, tea.Batch(cmd, s.queryChanged(q))
	}
	return s, cmd
}

func (s Select[V]) updateMouse(msg tea.MouseMsg) (Select[V], tea.Cmd) {
	if s.open && mouseIn(s.layout, s.zoneID("list"), msg) {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			s.scrollBy(-1)
			return s, nil
		case tea.MouseButtonWheelDown:
			s.scrollBy(+1)
			return s, nil
		}
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return s, nil
	}

	// Tag removal must not toggle the list.
	if s.multiple {
		for i, v := range s.value.current().values {
			if mouseIn(s.layout, s.tagID(i), msg) {
				return s, s.removeValue(v)
			}
		}
	}

	if !s.open {
		if mouseIn(s.layout, s.zoneID("trigger"), msg) {
			s.hasFocus = true
			return s, s.openList()
		}
		return s, nil
	}

	end := min(s.offset+s.maxVisible, len(s.filtered))
	for i := s.offset; i < end; i++ {
		if !mouseIn(s.layout, s.rowID(i), msg) {
			continue
		}
		s.focused = i
		if s.filtered[i].Disabled {
			return s, nil
		}
		return s, s.selectOption(s.filtered[i].Value)
	}

	switch {
	case mouseIn(s.layout, s.zoneID("list"), msg):
	case mouseIn(s.layout, s.zoneID("trigger"), msg):
		return s, s.closeList()
	default:
		s.log.Debug().Int("x", msg.X).Int("y", msg.Y).Msg("outside click")
		return s, s.closeList()
	}
	return s, nil
}

// --- Open/close lifecycle ---

func (s *Select[V]) openList() tea.Cmd {
	s.open = true
	s.hasFocus = true
	s.refilter()
	s.focused = -1
	if len(s.filtered) > 0 {
		s.focused = 0
	}
	s.offset = 0
	s.reposition()
	s.log.Debug().Int("options", len(s.filtered)).Msg("list opened")

	if !s.searchable {
		return nil
	}
	s.search.Placeholder = s.searchPlaceholder()
	return s.search.Focus()
}

// closeList closes the list and clears the query. In async mode a non-empty
// query is reset through the owner with a new SearchChangeMsg.
func (s *Select[V]) closeList() tea.Cmd {
	cleared := s.query != ""
	s.open = false
	s.query = ""
	s.search.SetValue("")
	s.search.Blur()
	s.focused = -1
	s.offset = 0
	s.refilter()
	s.log.Debug().Msg("list closed")

	if !s.async || !cleared {
		return nil
	}
	s.seq++
	id, seq := s.id, s.seq
	return func() tea.Msg {
		return SearchChangeMsg{ID: id, Query: "", Seq: seq}
	}
}

// reposition recomputes the list coordinates from the trigger's anchor.
func (s *Select[V]) reposition() {
	if r, ok := s.layout.Anchor(s.zoneID("trigger")); ok {
		s.coords = Coordinates{Left: r.Left, Top: r.Bottom() + s.listOffset, Width: r.Width}
		s.positioned = true
		return
	}
	// Not rendered yet: assume the trigger sits at the host's origin.
	s.coords = Coordinates{
		Left:  0,
		Top:   s.triggerHeight() + s.listOffset,
		Width: s.triggerWidth(),
	}
	s.positioned = false
}

// --- Selection controller ---

func (s *Select[V]) commitFocused() tea.Cmd {
	if s.focused < 0 || s.focused >= len(s.filtered) {
		return nil
	}
	opt := s.filtered[s.focused]
	if opt.Disabled {
		return nil
	}
	return s.selectOption(opt.Value)
}

// selectOption commits v. Single mode replaces the value and closes the list;
// multi mode toggles membership and keeps the list and query.
func (s *Select[V]) selectOption(v V) tea.Cmd {
	var next Selection[V]
	var reset tea.Cmd
	if s.multiple {
		next = s.value.current().toggle(v)
	} else {
		next = SingleValue(v)
		reset = s.closeList()
	}
	s.value.commit(next)
	s.log.Debug().Interface("value", v).Msg("option selected")
	return tea.Batch(s.emitChange(next), reset)
}

// removeValue drops v from a multi selection.
func (s *Select[V]) removeValue(v V) tea.Cmd {
	cur := s.value.current()
	if !s.multiple || !cur.Has(v) {
		return nil
	}
	next := cur.without(v)
	s.value.commit(next)
	s.log.Debug().Interface("value", v).Msg("value removed")
	return s.emitChange(next)
}

func (s *Select[V]) removeLast() tea.Cmd {
	vals := s.value.current().values
	if !s.multiple || len(vals) == 0 {
		return nil
	}
	return s.removeValue(vals[len(vals)-1])
}

func (s *Select[V]) emitChange(next Selection[V]) tea.Cmd {
	id := s.id
	return func() tea.Msg {
		return ChangeMsg[V]{ID: id, Selection: next}
	}
}

// --- Filtering and navigation ---

func (s *Select[V]) setOptions(opts []Option[V]) {
	if err := ValidateOptions(opts); err != nil {
		s.log.Warn().Err(err).Msg("option values are not unique")
	}
	s.options = opts
	s.refilter()
	s.clampFocus()
}

func (s *Select[V]) refilter() {
	if s.async {
		s.filtered = s.options
		return
	}
	s.filtered = FilterOptions(s.options, s.query, s.match)
}

func (s *Select[V]) queryChanged(q string) tea.Cmd {
	s.query = q
	s.refilter()
	s.focused = -1
	if len(s.filtered) > 0 {
		s.focused = 0
	}
	s.offset = 0

	if !s.async {
		return nil
	}
	s.seq++
	id, seq := s.id, s.seq
	return func() tea.Msg {
		return SearchChangeMsg{ID: id, Query: q, Seq: seq}
	}
}

// clampFocus keeps the focused row valid after the list changed.
func (s *Select[V]) clampFocus() {
	n := len(s.filtered)
	switch {
	case !s.open || n == 0:
		s.focused = -1
		s.offset = 0
		return
	case s.focused < 0:
		s.focused = 0
	case s.focused >= n:
		s.focused = n - 1
	}
	s.scrollIntoView()
}

// moveFocus steps the focused row by dir, wrapping at both ends.
func (s *Select[V]) moveFocus(dir int) {
	n := len(s.filtered)
	if n == 0 {
		return
	}
	if s.focused < 0 && dir < 0 {
		s.focused = n - 1
	} else {
		s.focused = ((s.focused+dir)%n + n) % n
	}
	s.scrollIntoView()
}

// scrollIntoView moves the window to the top when the first row is focused,
// and otherwise by the least amount that shows the focused row.
func (s *Select[V]) scrollIntoView() {
	if s.focused <= 0 {
		s.offset = 0
		return
	}
	if s.focused < s.offset {
		s.offset = s.focused
	}
	if s.focused >= s.offset+s.maxVisible {
		s.offset = s.focused - s.maxVisible + 1
	}
}

func (s *Select[V]) scrollBy(delta int) {
	maxOffset := max(len(s.filtered)-s.maxVisible, 0)
	s.offset = min(max(s.offset+delta, 0), maxOffset)
}

// --- Zone ids ---

func (s Select[V]) zoneID(part string) string {
	return s.id + ":" + part
}

func (s Select[V]) rowID(i int) string {
	return fmt.Sprintf("%s:row:%d", s.id, i)
}

func (s Select[V]) tagID(i int) string {
	return fmt.Sprintf("%s:tag:%d", s.id, i)
}
