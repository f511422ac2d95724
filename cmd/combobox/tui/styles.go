package tui

import (
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha palette.
var flavor = catppuccin.Mocha

// Color constants extracted from the Mocha palette for convenience.
var (
	colorBase     = lipgloss.Color(flavor.Base().Hex)
	colorMantle   = lipgloss.Color(flavor.Mantle().Hex)
	colorSurface0 = lipgloss.Color(flavor.Surface0().Hex)
	colorSurface1 = lipgloss.Color(flavor.Surface1().Hex)
	colorText     = lipgloss.Color(flavor.Text().Hex)
	colorSubtext0 = lipgloss.Color(flavor.Subtext0().Hex)
	colorBlue     = lipgloss.Color(flavor.Blue().Hex)
	colorGreen    = lipgloss.Color(flavor.Green().Hex)
	colorRed      = lipgloss.Color(flavor.Red().Hex)
	colorMauve    = lipgloss.Color(flavor.Mauve().Hex)
	colorOverlay0 = lipgloss.Color(flavor.Overlay0().Hex)
)

// Size controls padding and minimum width.
type Size int

const (
	SizeMedium Size = iota
	SizeSmall
	SizeLarge
)

// Shadow controls the border weight used to suggest elevation.
type Shadow int

const (
	ShadowSoft Shadow = iota // rounded border
	ShadowNone               // plain border
	ShadowHard               // thick border
)

// Variant controls the accent color.
type Variant int

const (
	VariantDefault Variant = iota
	VariantPrimary
	VariantDanger
)

// StyleSet holds every style a Select renders with.
type StyleSet struct {
	MinWidth int

	Trigger         lipgloss.Style
	TriggerOpen     lipgloss.Style
	TriggerDisabled lipgloss.Style
	Placeholder     lipgloss.Style
	Caret           lipgloss.Style
	Tag             lipgloss.Style
	TagRemove       lipgloss.Style

	List         lipgloss.Style
	Item         lipgloss.Style
	ItemFocused  lipgloss.Style
	ItemSelected lipgloss.Style
	ItemDisabled lipgloss.Style
	Empty        lipgloss.Style
	Loading      lipgloss.Style
	ScrollHint   lipgloss.Style
}

type styleKey struct {
	size    Size
	shadow  Shadow
	variant Variant
}

var (
	sizes    = []Size{SizeSmall, SizeMedium, SizeLarge}
	shadows  = []Shadow{ShadowNone, ShadowSoft, ShadowHard}
	variants = []Variant{VariantDefault, VariantPrimary, VariantDanger}
)

// styleTable is built once for every (size, shadow, variant) combination.
var styleTable = buildStyleTable()

// ResolveStyles returns the style set for the given tags. Out-of-range tags
// resolve to the defaults.
func ResolveStyles(size Size, shadow Shadow, variant Variant) StyleSet {
	if s, ok := styleTable[styleKey{size, shadow, variant}]; ok {
		return s
	}
	return styleTable[styleKey{SizeMedium, ShadowSoft, VariantDefault}]
}

// DefaultStyles returns the medium, soft-shadow, default-variant style set.
func DefaultStyles() StyleSet {
	return ResolveStyles(SizeMedium, ShadowSoft, VariantDefault)
}

func buildStyleTable() map[styleKey]StyleSet {
	table := make(map[styleKey]StyleSet, len(sizes)*len(shadows)*len(variants))
	for _, sz := range sizes {
		for _, sh := range shadows {
			for _, v := range variants {
				table[styleKey{sz, sh, v}] = newStyleSet(sz, sh, v)
			}
		}
	}
	return table
}

func newStyleSet(size Size, shadow Shadow, variant Variant) StyleSet {
	accent := colorBlue
	switch variant {
	case VariantPrimary:
		accent = colorMauve
	case VariantDanger:
		accent = colorRed
	}

	border := lipgloss.RoundedBorder()
	switch shadow {
	case ShadowNone:
		border = lipgloss.NormalBorder()
	case ShadowHard:
		border = lipgloss.ThickBorder()
	}

	padX, minWidth := 1, 24
	switch size {
	case SizeSmall:
		padX, minWidth = 0, 16
	case SizeLarge:
		padX, minWidth = 2, 36
	}

	trigger := lipgloss.NewStyle().
		Border(border).
		BorderForeground(colorSurface1).
		Foreground(colorText).
		Padding(0, padX)

	return StyleSet{
		MinWidth: minWidth,

		Trigger:         trigger,
		TriggerOpen:     trigger.BorderForeground(accent),
		TriggerDisabled: trigger.Foreground(colorOverlay0).BorderForeground(colorSurface0),
		Placeholder:     lipgloss.NewStyle().Foreground(colorOverlay0),
		Caret:           lipgloss.NewStyle().Foreground(accent),
		Tag: lipgloss.NewStyle().
			Foreground(colorBase).
			Background(accent).
			PaddingLeft(1),
		TagRemove: lipgloss.NewStyle().
			Foreground(colorBase).
			Background(accent).
			Bold(true).
			PaddingRight(1),

		List: lipgloss.NewStyle().
			Border(border).
			BorderForeground(accent).
			Background(colorMantle).
			Foreground(colorText).
			Padding(0, padX),
		Item: lipgloss.NewStyle().
			Foreground(colorText),
		ItemFocused: lipgloss.NewStyle().
			Foreground(accent).
			Background(colorSurface0).
			Bold(true),
		ItemSelected: lipgloss.NewStyle().
			Foreground(colorGreen),
		ItemDisabled: lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Strikethrough(true),
		Empty: lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Italic(true),
		Loading: lipgloss.NewStyle().
			Foreground(accent),
		ScrollHint: lipgloss.NewStyle().
			Foreground(colorOverlay0),
	}
}

// ParseSize maps a config name to a Size.
func ParseSize(s string) Size {
	switch strings.ToLower(s) {
	case "small", "sm":
		return SizeSmall
	case "large", "lg":
		return SizeLarge
	default:
		return SizeMedium
	}
}

// ParseShadow maps a config name to a Shadow.
func ParseShadow(s string) Shadow {
	switch strings.ToLower(s) {
	case "none":
		return ShadowNone
	case "hard":
		return ShadowHard
	default:
		return ShadowSoft
	}
}

// ParseVariant maps a config name to a Variant.
func ParseVariant(s string) Variant {
	switch strings.ToLower(s) {
	case "primary":
		return VariantPrimary
	case "danger":
		return VariantDanger
	default:
		return VariantDefault
	}
}

// HelpStyle is used for the key hints hosts render under a Select.
var HelpStyle = lipgloss.NewStyle().Foreground(colorOverlay0)
