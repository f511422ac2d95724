package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// View renders the trigger. Hosts draw the list with Overlay or ListView.
func (s Select[V]) View() string {
	return s.triggerView()
}

func (s Select[V]) triggerView() string {
	style := s.styles.Trigger
	switch {
	case s.disabled:
		style = s.styles.TriggerDisabled
	case s.open:
		style = s.styles.TriggerOpen
	}

	caret := "▾"
	if s.open {
		caret = "▴"
	}

	inner := s.triggerWidth() - style.GetHorizontalFrameSize()
	avail := max(inner-2, 1) // caret and its gap

	content := s.triggerContent(avail)
	content = ansi.Truncate(content, avail, "…")
	if w := ansi.StringWidth(content); w < avail {
		content += strings.Repeat(" ", avail-w)
	}

	line := content + " " + s.styles.Caret.Render(caret)
	box := style.Width(inner + style.GetHorizontalPadding()).Render(line)
	return s.layout.Mark(s.zoneID("trigger"), box)
}

// triggerContent returns the text inside the trigger box.
func (s Select[V]) triggerContent(avail int) string {
	sel := s.value.current()

	var parts []string
	if s.multiple {
		for i, v := range sel.values {
			// Only the × is clickable; the label belongs to the trigger.
			remove := s.layout.Mark(s.tagID(i), s.styles.TagRemove.Render("×"))
			parts = append(parts, s.styles.Tag.Render(labelFor(s.options, v)+" ")+remove)
		}
	}

	if s.open && s.searchable {
		search := s.search
		search.Width = max(avail-ansi.StringWidth(strings.Join(parts, " "))-2, 1)
		parts = append(parts, search.View())
		return strings.Join(parts, " ")
	}

	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if !s.multiple {
		if v, ok := sel.Value(); ok {
			if o, found := findOption(s.options, v); found {
				return o.display()
			}
		}
	}
	return s.styles.Placeholder.Render(s.placeholder)
}

// searchPlaceholder is shown in the empty search input: the current label in
// single mode, otherwise the configured placeholder.
func (s Select[V]) searchPlaceholder() string {
	if !s.multiple {
		if v, ok := s.value.current().Value(); ok {
			if o, found := findOption(s.options, v); found {
				return o.Label
			}
		}
	}
	return s.placeholder
}

func (s Select[V]) triggerWidth() int {
	return max(s.width, s.styles.MinWidth)
}

func (s Select[V]) triggerHeight() int {
	return lipgloss.Height(s.triggerView())
}
