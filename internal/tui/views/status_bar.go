package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// StatusBar displays persistent profile/session status plus key hints.
type StatusBar struct {
	*tview.TextView
	profile string
	user    string
	status  string
	flash   string
	hints   []string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv}
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetUser updates the signed-in user display. Empty means logged out.
func (sb *StatusBar) SetUser(username string) {
	sb.user = username
	sb.render()
}

// SetStatus updates the app status display.
func (sb *StatusBar) SetStatus(status string) {
	sb.status = status
	sb.render()
}

// SetFlash sets a temporary message.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

// SetHints sets the key hint strings for the active page.
func (sb *StatusBar) SetHints(hints []string) {
	sb.hints = hints
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	who := sb.user
	if who == "" {
		who = "guest"
	}

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s | %s", sb.profile, who, sb.status)
	if len(sb.hints) > 0 {
		line += " | " + strings.Join(sb.hints, "  ")
	}
	if sb.flash != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", sb.flash)
	}

	_, _ = fmt.Fprint(sb, line)
}
