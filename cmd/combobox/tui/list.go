package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ListView renders the floating list, or "" while closed. Exactly one of the
// loading indicator, the "No options" notice, or the option rows is shown.
func (s Select[V]) ListView() string {
	if !s.open {
		return ""
	}

	width := s.coords.Width
	if width <= 0 {
		width = s.triggerWidth()
	}
	style := s.styles.List
	inner := max(width-style.GetHorizontalFrameSize(), 1)

	var body string
	switch {
	case s.loading:
		body = s.styles.Loading.Render(s.spinner.View() + " Loading…")
	case len(s.filtered) == 0:
		body = s.styles.Empty.Render("No options")
	default:
		body = s.rowsView(inner)
	}

	box := style.Width(inner + style.GetHorizontalPadding()).Render(body)
	return s.layout.Mark(s.zoneID("list"), box)
}

// Overlay draws the open list over background at the list coordinates. When
// height is positive the frame is cut or padded to that many lines.
func (s Select[V]) Overlay(background string, height int) string {
	list := s.ListView()
	if list == "" {
		return background
	}
	return PlaceAt(background, list, s.coords.Left, s.coords.Top, height)
}

func (s Select[V]) rowsView(width int) string {
	sel := s.value.current()
	end := min(s.offset+s.maxVisible, len(s.filtered))

	var b strings.Builder
	if s.offset > 0 {
		b.WriteString(s.styles.ScrollHint.Render(fmt.Sprintf("↑ %d more", s.offset)))
		b.WriteString("\n")
	}

	for i := s.offset; i < end; i++ {
		opt := s.filtered[i]

		cursor := "  "
		if i == s.focused {
			cursor = "› "
		}

		var mark string
		switch {
		case s.multiple && sel.Has(opt.Value):
			mark = "[x] "
		case s.multiple:
			mark = "[ ] "
		case sel.Has(opt.Value):
			mark = "✓ "
		default:
			mark = "  "
		}

		text := ansi.Truncate(cursor+mark+opt.display(), width, "…")
		if w := ansi.StringWidth(text); w < width {
			text += strings.Repeat(" ", width-w)
		}

		style := s.styles.Item
		switch {
		case opt.Disabled:
			style = s.styles.ItemDisabled
		case i == s.focused:
			style = s.styles.ItemFocused
		case sel.Has(opt.Value):
			style = s.styles.ItemSelected
		}

		b.WriteString(s.layout.Mark(s.rowID(i), style.Render(text)))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if rest := len(s.filtered) - end; rest > 0 {
		b.WriteString("\n")
		b.WriteString(s.styles.ScrollHint.Render(fmt.Sprintf("↓ %d more", rest)))
	}
	return b.String()
}
