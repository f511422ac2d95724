package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func abc() []Option[int] {
	return []Option[int]{
		NewOption("A", 1),
		NewOption("B", 2),
		NewOption("C", 3),
	}
}

func newTestSelect(cfg Config, opts []Option[int], src ValueSource[int]) Select[int] {
	if cfg.ID == "" {
		cfg.ID = "sel"
	}
	s := New(cfg, opts, src)
	s.Focus()
	return s
}

func press(s Select[int], k tea.KeyType) (Select[int], tea.Cmd) {
	return s.Update(tea.KeyMsg{Type: k})
}

func typeText(s Select[int], text string) (Select[int], []tea.Msg) {
	var msgs []tea.Msg
	for _, r := range text {
		var cmd tea.Cmd
		s, cmd = s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		msgs = append(msgs, collect(cmd)...)
	}
	return s, msgs
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func changesOf(msgs []tea.Msg) []ChangeMsg[int] {
	var out []ChangeMsg[int]
	for _, m := range msgs {
		if c, ok := m.(ChangeMsg[int]); ok {
			out = append(out, c)
		}
	}
	return out
}

func extractChange(cmd tea.Cmd) *ChangeMsg[int] {
	changes := changesOf(collect(cmd))
	if len(changes) == 0 {
		return nil
	}
	return &changes[0]
}

// --- Keyboard state machine ---

func TestSelect_OpenKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyEnter},
		{Type: tea.KeySpace, Runes: []rune{' '}},
		{Type: tea.KeyDown},
	} {
		t.Run(k.String(), func(t *testing.T) {
			s := newTestSelect(Config{}, abc(), Uncontrolled(NoValue[int]()))
			s, _ = s.Update(k)
			assert.True(t, s.IsOpen())
			assert.Equal(t, 0, s.FocusedIndex())
		})
	}
}

func TestSelect_OpenWithoutOptions(t *testing.T) {
	s := newTestSelect(Config{}, nil, Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	assert.True(t, s.IsOpen())
	assert.Equal(t, -1, s.FocusedIndex())

	// Navigation is a no-op on an empty list.
	s, _ = press(s, tea.KeyDown)
	assert.Equal(t, -1, s.FocusedIndex())
	s, _ = press(s, tea.KeyUp)
	assert.Equal(t, -1, s.FocusedIndex())
}

func TestSelect_ArrowWrap(t *testing.T) {
	s := newTestSelect(Config{}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)

	s, _ = press(s, tea.KeyUp)
	assert.Equal(t, 2, s.FocusedIndex(), "up from first wraps to last")

	s, _ = press(s, tea.KeyDown)
	assert.Equal(t, 0, s.FocusedIndex(), "down from last wraps to first")
}

func TestSelect_ArrowDownNTimesReturnsToStart(t *testing.T) {
	opts := abc()
	s := newTestSelect(Config{}, opts, Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = press(s, tea.KeyDown)
	start := s.FocusedIndex()

	for range opts {
		s, _ = press(s, tea.KeyDown)
	}
	assert.Equal(t, start, s.FocusedIndex())
}

func TestSelect_SingleEnterCommits(t *testing.T) {
	s := newTestSelect(Config{}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = press(s, tea.KeyDown)
	s, _ = press(s, tea.KeyDown)

	s, cmd := press(s, tea.KeyEnter)
	assert.False(t, s.IsOpen(), "single select closes on commit")
	assert.Equal(t, -1, s.FocusedIndex())

	v, ok := s.Value().Value()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	change := extractChange(cmd)
	require.NotNil(t, change)
	assert.Equal(t, "sel", change.ID)
	got, _ := change.Selection.Value()
	assert.Equal(t, 3, got)
}

func TestSelect_NavigationEmitsNothing(t *testing.T) {
	s := newTestSelect(Config{}, abc(), Uncontrolled(NoValue[int]()))
	s, cmd := press(s, tea.KeyEnter)
	assert.Empty(t, changesOf(collect(cmd)))
	for _, k := range []tea.KeyType{tea.KeyDown, tea.KeyDown, tea.KeyUp} {
		s, cmd = press(s, k)
		assert.Nil(t, cmd)
	}
	assert.Equal(t, 0, s.Value().Len())
}

func TestSelect_EscapeClosesWithoutChange(t *testing.T) {
	s := newTestSelect(Config{}, abc(), Uncontrolled(SingleValue(2)))
	s, _ = press(s, tea.KeyEnter)
	s, _ = press(s, tea.KeyDown)

	s, cmd := press(s, tea.KeyEsc)
	assert.False(t, s.IsOpen())
	assert.Nil(t, cmd)
	v, _ := s.Value().Value()
	assert.Equal(t, 2, v)
}

func TestSelect_TabClosesAndBlurs(t *testing.T) {
	s := newTestSelect(Config{}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)

	s, cmd := press(s, tea.KeyTab)
	assert.False(t, s.IsOpen())
	assert.False(t, s.Focused())

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	blur, ok := msgs[0].(BlurMsg)
	require.True(t, ok)
	assert.Equal(t, "sel", blur.ID)
	assert.False(t, blur.Reverse)
}

func TestSelect_DisabledOptionNavigableNotSelectable(t *testing.T) {
	opts := []Option[int]{
		NewOption("A", 1),
		NewOption("B", 2).WithDisabled(true),
	}
	s := newTestSelect(Config{}, opts, Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = press(s, tea.KeyDown)
	assert.Equal(t, 1, s.FocusedIndex(), "disabled options can be focused")

	s, cmd := press(s, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.True(t, s.IsOpen())
	assert.Equal(t, 0, s.Value().Len())
}

func TestSelect_DisabledWidgetIgnoresInput(t *testing.T) {
	s := newTestSelect(Config{Disabled: true}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	assert.False(t, s.IsOpen())
}

func TestSelect_UnfocusedIgnoresKeys(t *testing.T) {
	s := New(Config{ID: "sel"}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	assert.False(t, s.IsOpen())
}

func TestSelect_SetDisabledClosesList(t *testing.T) {
	s := newTestSelect(Config{}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s.SetDisabled(true)
	assert.False(t, s.IsOpen())
}

// --- Multi select ---

func TestSelect_MultiToggleIsIdempotentPair(t *testing.T) {
	s := newTestSelect(Config{Multiple: true}, abc(), Uncontrolled(MultiValue(2)))
	before := s.Value()

	s, _ = press(s, tea.KeyEnter) // open, focus A
	s, _ = press(s, tea.KeyEnter) // add A
	assert.Equal(t, []int{2, 1}, s.Value().Values())
	assert.True(t, s.IsOpen(), "multi select stays open")

	s, _ = press(s, tea.KeyEnter) // remove A
	assert.True(t, before.Equal(s.Value()))
}

func TestSelect_MultiOrderIsSelectionOrder(t *testing.T) {
	s := newTestSelect(Config{Multiple: true}, abc(), Uncontrolled(MultiValue[int]()))
	s, _ = press(s, tea.KeyEnter)

	s, _ = press(s, tea.KeyEnter) // A
	s, _ = press(s, tea.KeyDown)
	s, _ = press(s, tea.KeyEnter) // B
	assert.Equal(t, []int{1, 2}, s.Value().Values())

	// Re-adding A moves it to the end.
	s, _ = press(s, tea.KeyUp)
	s, _ = press(s, tea.KeyEnter)
	s, _ = press(s, tea.KeyEnter)
	assert.Equal(t, []int{2, 1}, s.Value().Values())
}

func TestSelect_MultiKeepsQuery(t *testing.T) {
	s := newTestSelect(Config{Multiple: true, Searchable: true}, abc(), Uncontrolled(MultiValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = typeText(s, "b")
	require.Len(t, s.Filtered(), 1)

	s, _ = press(s, tea.KeyEnter)
	assert.Equal(t, []int{2}, s.Value().Values())
	assert.Equal(t, "b", s.Query())
	assert.True(t, s.IsOpen())
}

func TestSelect_MultiValueNeverNil(t *testing.T) {
	s := newTestSelect(Config{Multiple: true}, abc(), Uncontrolled(NoValue[int]()))
	assert.NotNil(t, s.Value().Values())
	assert.True(t, s.Value().Multiple())
}

func TestSelect_ClickAClickBRemoveA(t *testing.T) {
	layout := NewStaticLayout()
	layout.Set("sel:trigger", Rect{Left: 0, Top: 0, Width: 24, Height: 3})
	layout.Set("sel:list", Rect{Left: 0, Top: 3, Width: 24, Height: 5})
	layout.Set("sel:row:0", Rect{Left: 1, Top: 4, Width: 22, Height: 1})
	layout.Set("sel:row:1", Rect{Left: 1, Top: 5, Width: 22, Height: 1})
	layout.Set("sel:row:2", Rect{Left: 1, Top: 6, Width: 22, Height: 1})
	layout.Set("sel:tag:0", Rect{Left: 2, Top: 1, Width: 5, Height: 1})

	s := New(Config{ID: "sel", Multiple: true, Layout: layout}, abc(), Uncontrolled(MultiValue[int]()))

	s, _ = s.Update(click(5, 1)) // trigger body opens the list
	require.True(t, s.IsOpen())

	var emitted []ChangeMsg[int]
	var cmd tea.Cmd
	s, cmd = s.Update(click(3, 4)) // A
	emitted = append(emitted, changesOf(collect(cmd))...)
	s, cmd = s.Update(click(3, 5)) // B
	emitted = append(emitted, changesOf(collect(cmd))...)
	s, cmd = s.Update(click(3, 1)) // tag 0 is A
	emitted = append(emitted, changesOf(collect(cmd))...)

	assert.Equal(t, []int{2}, s.Value().Values())
	assert.True(t, s.IsOpen(), "removing a tag does not toggle the list")
	require.Len(t, emitted, 3, "one change per action")
	assert.Equal(t, []int{2}, emitted[2].Selection.Values())
}

func TestSelect_BackspaceRemovesLastTag(t *testing.T) {
	s := newTestSelect(Config{Multiple: true, Searchable: true}, abc(), Uncontrolled(MultiValue(1, 3)))
	s, _ = press(s, tea.KeyEnter)

	s, cmd := press(s, tea.KeyBackspace)
	assert.Equal(t, []int{1}, s.Value().Values())
	require.NotNil(t, extractChange(cmd))

	// With a query, backspace edits the query instead.
	s, _ = typeText(s, "c")
	s, cmd = press(s, tea.KeyBackspace)
	assert.Equal(t, []int{1}, s.Value().Values())
	assert.Nil(t, extractChange(cmd))
	assert.Empty(t, s.Query())
}

func TestSelect_RemoveAbsentValueEmitsNothing(t *testing.T) {
	s := newTestSelect(Config{Multiple: true}, abc(), Uncontrolled(MultiValue(1)))
	assert.Nil(t, s.removeValue(3))
}

// --- Mouse ---

func TestSelect_OutsideClickCloses(t *testing.T) {
	layout := NewStaticLayout()
	layout.Set("sel:trigger", Rect{Left: 0, Top: 0, Width: 24, Height: 3})
	layout.Set("sel:list", Rect{Left: 0, Top: 3, Width: 24, Height: 5})

	s := newTestSelect(Config{Searchable: true, Layout: layout}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = typeText(s, "a")
	require.Equal(t, "a", s.Query())

	s, cmd := s.Update(click(60, 20))
	assert.False(t, s.IsOpen())
	assert.Equal(t, "", s.Query())
	assert.Empty(t, changesOf(collect(cmd)))
}

func TestSelect_ClickInsideListKeepsOpen(t *testing.T) {
	layout := NewStaticLayout()
	layout.Set("sel:trigger", Rect{Left: 0, Top: 0, Width: 24, Height: 3})
	layout.Set("sel:list", Rect{Left: 0, Top: 3, Width: 24, Height: 5})

	s := newTestSelect(Config{Layout: layout}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = s.Update(click(0, 3)) // list border
	assert.True(t, s.IsOpen())

	s, _ = s.Update(click(2, 1)) // trigger toggles closed
	assert.False(t, s.IsOpen())
}

func TestSelect_ClickDisabledRowIgnored(t *testing.T) {
	layout := NewStaticLayout()
	layout.Set("sel:trigger", Rect{Left: 0, Top: 0, Width: 24, Height: 3})
	layout.Set("sel:row:0", Rect{Left: 1, Top: 4, Width: 22, Height: 1})

	opts := []Option[int]{NewOption("A", 1).WithDisabled(true)}
	s := newTestSelect(Config{Layout: layout}, opts, Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, cmd := s.Update(click(3, 4))
	assert.Nil(t, cmd)
	assert.True(t, s.IsOpen())
}

// --- Controlled / uncontrolled ---

func TestSelect_ControlledMirrorsOwner(t *testing.T) {
	s := newTestSelect(Config{}, abc(), Controlled(SingleValue(1)))
	assert.True(t, s.Controlled())

	s, _ = press(s, tea.KeyEnter)
	s, _ = press(s, tea.KeyDown)
	s, cmd := press(s, tea.KeyEnter)

	change := extractChange(cmd)
	require.NotNil(t, change)
	got, _ := change.Selection.Value()
	assert.Equal(t, 2, got, "change carries the new value")

	v, _ := s.Value().Value()
	assert.Equal(t, 1, v, "controlled value waits for the owner")

	require.NoError(t, s.SetValue(change.Selection))
	v, _ = s.Value().Value()
	assert.Equal(t, 2, v)
}

func TestSelect_SetValueOnUncontrolled(t *testing.T) {
	s := newTestSelect(Config{}, abc(), Uncontrolled(NoValue[int]()))
	err := s.SetValue(SingleValue(1))
	assert.ErrorIs(t, err, ErrUncontrolled)
	assert.Equal(t, 0, s.Value().Len(), "mode never flips")
}

func TestSelect_SetValueModeMismatch(t *testing.T) {
	s := newTestSelect(Config{Multiple: true}, abc(), Controlled(MultiValue[int]()))
	err := s.SetValue(SingleValue(1))
	assert.ErrorIs(t, err, ErrModeMismatch)
}

// --- Filtering ---

func TestSelect_TypingFiltersLocally(t *testing.T) {
	opts := []Option[string]{
		NewOption("Apple", "apple"),
		NewOption("Banana", "banana"),
		NewOption("Pineapple", "pineapple"),
	}
	s := New(Config{ID: "f", Searchable: true}, opts, Uncontrolled(NoValue[string]()))
	s.Focus()
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for _, r := range "APP" {
		s, _ = s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	require.Len(t, s.Filtered(), 2)
	assert.Equal(t, "apple", s.Filtered()[0].Value)
	assert.Equal(t, "pineapple", s.Filtered()[1].Value)
	assert.Equal(t, 0, s.FocusedIndex())
}

func TestSelect_NoMatchRendersNoOptions(t *testing.T) {
	s := newTestSelect(Config{Searchable: true}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = typeText(s, "zzz")

	assert.Empty(t, s.Filtered())
	assert.Equal(t, -1, s.FocusedIndex())
	assert.Contains(t, s.ListView(), "No options")
}

func TestSelect_CloseResetsQueryAndFilter(t *testing.T) {
	s := newTestSelect(Config{Searchable: true}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = typeText(s, "b")
	s, _ = press(s, tea.KeyEsc)

	assert.Empty(t, s.Query())
	assert.Len(t, s.Filtered(), 3)
}

func TestSelect_AsyncSearchEmitsQueries(t *testing.T) {
	s := newTestSelect(Config{AsyncSearch: true}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)

	s, msgs := typeText(s, "zz")
	var searches []SearchChangeMsg
	for _, m := range msgs {
		if sc, ok := m.(SearchChangeMsg); ok {
			searches = append(searches, sc)
		}
	}
	require.Len(t, searches, 2)
	assert.Equal(t, "z", searches[0].Query)
	assert.Equal(t, "zz", searches[1].Query)
	assert.Equal(t, uint64(2), searches[1].Seq)

	assert.Len(t, s.Filtered(), 3, "async mode does not filter locally")
}

func TestSelect_AsyncLoadingHidesListAndEmpty(t *testing.T) {
	for _, opts := range [][]Option[int]{abc(), nil} {
		s := newTestSelect(Config{AsyncSearch: true}, opts, Uncontrolled(NoValue[int]()))
		s, _ = press(s, tea.KeyEnter)
		s.SetLoading(true)

		view := s.ListView()
		assert.Contains(t, view, "Loading")
		assert.NotContains(t, view, "No options")
		assert.NotContains(t, view, "[ ]")
		for _, o := range opts {
			assert.NotContains(t, view, "  "+o.Label)
		}
	}
}

func TestSelect_ApplyResultsDiscardsStale(t *testing.T) {
	s := newTestSelect(Config{AsyncSearch: true}, nil, Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = typeText(s, "ab") // seq 1, 2

	s, _ = s.Update(SearchResults[int]{ID: "sel", Seq: 1, Options: abc()[:1]})
	assert.Empty(t, s.Filtered(), "results for an older query are dropped")

	s, _ = s.Update(SearchResults[int]{ID: "sel", Seq: 2, Options: abc()})
	assert.Len(t, s.Filtered(), 3)
	assert.Equal(t, 0, s.FocusedIndex())
	assert.False(t, s.Loading())
}

func searchesOf(msgs []tea.Msg) []SearchChangeMsg {
	var out []SearchChangeMsg
	for _, m := range msgs {
		if sc, ok := m.(SearchChangeMsg); ok {
			out = append(out, sc)
		}
	}
	return out
}

func TestSelect_AsyncCloseResetsQueryThroughOwner(t *testing.T) {
	s := newTestSelect(Config{AsyncSearch: true}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = typeText(s, "zz") // seq 1, 2
	s, _ = s.Update(SearchResults[int]{ID: "sel", Seq: 2})
	require.Empty(t, s.Filtered())

	s, cmd := press(s, tea.KeyEsc)
	searches := searchesOf(collect(cmd))
	require.Len(t, searches, 1)
	assert.Equal(t, "", searches[0].Query)
	assert.Equal(t, uint64(3), searches[0].Seq)

	s, _ = s.Update(SearchResults[int]{ID: "sel", Seq: 2, Options: abc()[:1]})
	assert.Empty(t, s.Options(), "answers to the abandoned query are dropped")

	s, _ = s.Update(SearchResults[int]{ID: "sel", Seq: 3, Options: abc()})
	s, cmd = press(s, tea.KeyEnter)
	assert.Empty(t, searchesOf(collect(cmd)))
	assert.Len(t, s.Filtered(), 3)
	assert.NotContains(t, s.ListView(), "No options")
}

func TestSelect_AsyncCloseWithEmptyQueryIsQuiet(t *testing.T) {
	s := newTestSelect(Config{AsyncSearch: true}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	_, cmd := press(s, tea.KeyEsc)
	assert.Empty(t, searchesOf(collect(cmd)))
}

func TestSelect_AsyncResetOnEveryClosePath(t *testing.T) {
	open := func() Select[int] {
		s := newTestSelect(Config{AsyncSearch: true}, abc(), Uncontrolled(NoValue[int]()))
		s, _ = press(s, tea.KeyEnter)
		s, _ = typeText(s, "a")
		return s
	}

	t.Run("tab", func(t *testing.T) {
		_, cmd := press(open(), tea.KeyTab)
		msgs := collect(cmd)
		assert.Len(t, searchesOf(msgs), 1)
		var blurred bool
		for _, m := range msgs {
			_, ok := m.(BlurMsg)
			blurred = blurred || ok
		}
		assert.True(t, blurred)
	})

	t.Run("single commit", func(t *testing.T) {
		_, cmd := press(open(), tea.KeyEnter)
		msgs := collect(cmd)
		assert.Len(t, changesOf(msgs), 1)
		require.Len(t, searchesOf(msgs), 1)
		assert.Equal(t, "", searchesOf(msgs)[0].Query)
	})

	t.Run("outside click", func(t *testing.T) {
		_, cmd := open().Update(click(100, 100))
		assert.Len(t, searchesOf(collect(cmd)), 1)
	})

	t.Run("blur", func(t *testing.T) {
		s := open()
		assert.Len(t, searchesOf(collect(s.Blur())), 1)
		assert.False(t, s.IsOpen())
	})

	t.Run("disable", func(t *testing.T) {
		s := open()
		assert.Len(t, searchesOf(collect(s.SetDisabled(true))), 1)
		assert.False(t, s.IsOpen())
	})
}

func TestSelect_ApplyResultsIgnoresOtherIDs(t *testing.T) {
	s := newTestSelect(Config{AsyncSearch: true}, nil, Uncontrolled(NoValue[int]()))
	s, _ = s.Update(SearchResults[int]{ID: "other", Options: abc()})
	assert.Empty(t, s.Options())
}

func TestSelect_SetOptionsClampsFocus(t *testing.T) {
	s := newTestSelect(Config{}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = press(s, tea.KeyUp)
	require.Equal(t, 2, s.FocusedIndex())

	s.SetOptions(abc()[:1])
	assert.Equal(t, 0, s.FocusedIndex())

	s.SetOptions(nil)
	assert.Equal(t, -1, s.FocusedIndex())
}

// --- Positioning and scrolling ---

func TestSelect_CoordinatesFollowTrigger(t *testing.T) {
	layout := NewStaticLayout()
	layout.Set("sel:trigger", Rect{Left: 4, Top: 2, Width: 30, Height: 3})

	s := newTestSelect(Config{Layout: layout, Offset: 1}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	assert.Equal(t, Coordinates{Left: 4, Top: 6, Width: 30}, s.Coordinates())

	layout.Set("sel:trigger", Rect{Left: 8, Top: 10, Width: 20, Height: 3})
	s, _ = s.Update(LayoutChangedMsg{})
	assert.Equal(t, Coordinates{Left: 8, Top: 14, Width: 20}, s.Coordinates())

	layout.Set("sel:trigger", Rect{Left: 1, Top: 1, Width: 20, Height: 3})
	s, _ = s.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, Coordinates{Left: 1, Top: 5, Width: 20}, s.Coordinates())
}

func TestSelect_ClosedIgnoresLayoutChanges(t *testing.T) {
	layout := NewStaticLayout()
	layout.Set("sel:trigger", Rect{Left: 4, Top: 2, Width: 30, Height: 3})

	s := newTestSelect(Config{Layout: layout}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)
	s, _ = press(s, tea.KeyEsc)
	before := s.Coordinates()

	layout.Set("sel:trigger", Rect{Left: 9, Top: 9, Width: 30, Height: 3})
	s, _ = s.Update(LayoutChangedMsg{})
	assert.Equal(t, before, s.Coordinates())
}

func TestSelect_ScrollNearestEdge(t *testing.T) {
	var opts []Option[int]
	for i := 0; i < 20; i++ {
		opts = append(opts, NewOption(string(rune('a'+i)), i))
	}
	s := newTestSelect(Config{MaxVisible: 5}, opts, Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)

	for i := 0; i < 4; i++ {
		s, _ = press(s, tea.KeyDown)
	}
	assert.Equal(t, 0, s.offset, "focused row still visible")

	s, _ = press(s, tea.KeyDown)
	assert.Equal(t, 5, s.FocusedIndex())
	assert.Equal(t, 1, s.offset)

	s, _ = press(s, tea.KeyUp)
	s, _ = press(s, tea.KeyUp)
	assert.Equal(t, 1, s.offset, "moving up inside the window keeps it")

	s, _ = press(s, tea.KeyUp)
	s, _ = press(s, tea.KeyUp)
	assert.Equal(t, 1, s.FocusedIndex())
	assert.Equal(t, 1, s.offset)

	s, _ = press(s, tea.KeyUp)
	assert.Equal(t, 0, s.offset, "focusing the first row scrolls to top")

	s, _ = press(s, tea.KeyUp)
	assert.Equal(t, 19, s.FocusedIndex())
	assert.Equal(t, 15, s.offset)

	view := s.ListView()
	assert.Contains(t, view, "↑ 15 more")
}

func TestSelect_WheelScrollsList(t *testing.T) {
	layout := NewStaticLayout()
	layout.Set("sel:list", Rect{Left: 0, Top: 3, Width: 24, Height: 7})

	var opts []Option[int]
	for i := 0; i < 10; i++ {
		opts = append(opts, NewOption(string(rune('a'+i)), i))
	}
	s := newTestSelect(Config{MaxVisible: 5, Layout: layout}, opts, Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)

	wheel := tea.MouseMsg{X: 2, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}
	for i := 0; i < 10; i++ {
		s, _ = s.Update(wheel)
	}
	assert.Equal(t, 5, s.offset, "wheel stops at the last page")
	assert.True(t, s.IsOpen())
}

// --- Rendering ---

func TestSelect_TriggerShowsSelectedLabel(t *testing.T) {
	s := newTestSelect(Config{Placeholder: "Pick one"}, abc(), Uncontrolled(NoValue[int]()))
	assert.Contains(t, s.View(), "Pick one")

	s, _ = press(s, tea.KeyEnter)
	s, _ = press(s, tea.KeyDown)
	s, _ = press(s, tea.KeyEnter)
	view := s.View()
	assert.Contains(t, view, "B")
	assert.NotContains(t, view, "Pick one")
}

func TestSelect_TriggerPlaceholderOnUnknownSingleValue(t *testing.T) {
	s := newTestSelect(Config{Placeholder: "Pick one"}, abc(), Uncontrolled(SingleValue(42)))
	assert.Contains(t, s.View(), "Pick one")
}

// markLayout records what each zone wraps.
type markLayout struct {
	*StaticLayout
	marked map[string]string
}

func (l markLayout) Mark(id, content string) string {
	l.marked[id] = content
	return content
}

func TestSelect_TagRemoveZoneCoversOnlyTheCross(t *testing.T) {
	layout := markLayout{StaticLayout: NewStaticLayout(), marked: map[string]string{}}
	s := newTestSelect(Config{Multiple: true, Width: 40, Layout: layout}, abc(), Uncontrolled(MultiValue(1, 2)))
	view := s.View()

	for _, id := range []string{"sel:tag:0", "sel:tag:1"} {
		zone, ok := layout.marked[id]
		require.True(t, ok, id)
		assert.Equal(t, "×", strings.TrimSpace(zone))
	}
	assert.Contains(t, view, "A ×")
	assert.Contains(t, view, "B ×")
}

func TestSelect_TagsFallBackToRawValue(t *testing.T) {
	s := newTestSelect(Config{Multiple: true, Placeholder: "Pick some", Width: 40}, abc(), Uncontrolled(MultiValue(1, 42)))
	view := s.View()
	assert.Contains(t, view, "A ×")
	assert.Contains(t, view, "42 ×")
	assert.NotContains(t, view, "Pick some")

	empty := newTestSelect(Config{Multiple: true, Placeholder: "Pick some"}, abc(), Uncontrolled(MultiValue[int]()))
	assert.Contains(t, empty.View(), "Pick some")
}

func TestSelect_ListMarksSelectedRows(t *testing.T) {
	s := newTestSelect(Config{Multiple: true}, abc(), Uncontrolled(MultiValue(2)))
	s, _ = press(s, tea.KeyEnter)
	view := s.ListView()
	assert.Contains(t, view, "[x] B")
	assert.Contains(t, view, "[ ] A")
}

func TestSelect_ListViewEmptyWhenClosed(t *testing.T) {
	s := newTestSelect(Config{}, abc(), Uncontrolled(NoValue[int]()))
	assert.Empty(t, s.ListView())
	assert.Equal(t, "bg", s.Overlay("bg", 0))
}

func TestSelect_OverlayPlacesListBelowTrigger(t *testing.T) {
	layout := NewStaticLayout()
	layout.Set("sel:trigger", Rect{Left: 0, Top: 0, Width: 24, Height: 3})

	s := newTestSelect(Config{Layout: layout}, abc(), Uncontrolled(NoValue[int]()))
	s, _ = press(s, tea.KeyEnter)

	frame := s.Overlay(s.View(), 12)
	lines := strings.Split(frame, "\n")
	require.Len(t, lines, 12)
	assert.Contains(t, lines[4], "A", "first row sits under the list border")
}
