package ui

import "github.com/gdamore/tcell/v2"

// Theme holds the color palette shared by all views.
type Theme struct {
	BgColor     tcell.Color
	FgColor     tcell.Color
	BorderColor tcell.Color
	TitleColor  tcell.Color
	AccentColor tcell.Color
	ErrorColor  tcell.Color
}

// DefaultTheme returns the standard dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:     tcell.ColorDefault,
		FgColor:     tcell.ColorWhite,
		BorderColor: tcell.ColorGray,
		TitleColor:  tcell.ColorAqua,
		AccentColor: tcell.ColorBlue,
		ErrorColor:  tcell.ColorRed,
	}
}
