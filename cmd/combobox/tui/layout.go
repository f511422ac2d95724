package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
)

// Rect is a screen rectangle in cells. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Width, Height int
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the first row below the rectangle.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// Coordinates position the floating list on screen.
type Coordinates struct {
	Left, Top, Width int
}

// LayoutProvider reports where marked regions of the last rendered frame
// landed on screen. A Select marks its trigger, list rows, and tags, then asks
// for their rectangles to place the list and hit-test the mouse.
type LayoutProvider interface {
	// Mark tags content so its position can be looked up after rendering.
	Mark(id, content string) string
	// Anchor returns the rectangle of a marked region from the last frame.
	Anchor(id string) (Rect, bool)
}

// LayoutChangedMsg tells open Selects that their anchors may have moved, for
// example after the host scrolled a viewport containing them.
type LayoutChangedMsg struct{}

// StaticLayout is a LayoutProvider with fixed rectangles. Mark is a no-op.
type StaticLayout struct {
	rects map[string]Rect
}

// NewStaticLayout creates an empty StaticLayout.
func NewStaticLayout() *StaticLayout {
	return &StaticLayout{rects: make(map[string]Rect)}
}

// Set records the rectangle for id.
func (l *StaticLayout) Set(id string, r Rect) {
	l.rects[id] = r
}

// Mark returns content unchanged.
func (l *StaticLayout) Mark(_ string, content string) string { return content }

// Anchor returns the recorded rectangle for id.
func (l *StaticLayout) Anchor(id string) (Rect, bool) {
	r, ok := l.rects[id]
	return r, ok
}

// ZoneLayout is a LayoutProvider backed by bubblezone markers. The host must
// pass its final frame through Scan in View.
type ZoneLayout struct {
	manager *zone.Manager
}

// NewZoneLayout creates a ZoneLayout with its own zone manager.
func NewZoneLayout() *ZoneLayout {
	return &ZoneLayout{manager: zone.New()}
}

// Mark wraps content in zone markers.
func (l *ZoneLayout) Mark(id, content string) string {
	return l.manager.Mark(id, content)
}

// Anchor returns the zone rectangle recorded by the last Scan.
func (l *ZoneLayout) Anchor(id string) (Rect, bool) {
	z := l.manager.Get(id)
	if z == nil || z.IsZero() {
		return Rect{}, false
	}
	return Rect{
		Left:   z.StartX,
		Top:    z.StartY,
		Width:  z.EndX - z.StartX + 1,
		Height: z.EndY - z.StartY + 1,
	}, true
}

// Scan strips zone markers from a rendered frame and records their positions.
func (l *ZoneLayout) Scan(frame string) string {
	return l.manager.Scan(frame)
}

// Close stops the zone manager.
func (l *ZoneLayout) Close() {
	l.manager.Close()
}

// mouseIn reports whether the mouse event falls inside the anchored region id.
func mouseIn(layout LayoutProvider, id string, msg tea.MouseMsg) bool {
	r, ok := layout.Anchor(id)
	return ok && r.Contains(msg.X, msg.Y)
}

// PlaceAt draws overlay on top of background with its top-left corner at
// (left, top). The background grows as needed to fit the overlay. When height
// is positive the result is cut or padded to exactly that many lines.
func PlaceAt(background, overlay string, left, top, height int) string {
	if overlay == "" {
		return background
	}
	if left < 0 {
		left = 0
	}
	if top < 0 {
		top = 0
	}

	bgLines := strings.Split(background, "\n")
	overlayLines := strings.Split(overlay, "\n")

	for len(bgLines) < top+len(overlayLines) {
		bgLines = append(bgLines, "")
	}

	for i, line := range overlayLines {
		row := top + i
		bg := bgLines[row]

		leftPart := ansi.Truncate(bg, left, "")
		if w := ansi.StringWidth(leftPart); w < left {
			leftPart += strings.Repeat(" ", left-w)
		}

		rightPart := ""
		end := left + ansi.StringWidth(line)
		if ansi.StringWidth(bg) > end {
			rightPart = ansi.TruncateLeft(bg, end, "")
		}

		bgLines[row] = leftPart + line + rightPart
	}

	if height > 0 {
		for len(bgLines) < height {
			bgLines = append(bgLines, "")
		}
		bgLines = bgLines[:height]
	}
	return strings.Join(bgLines, "\n")
}
