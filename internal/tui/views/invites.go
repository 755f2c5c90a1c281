package views

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kshzz24/scalable-chat-app/internal/store"
	"github.com/kshzz24/scalable-chat-app/internal/tui/ui"
	"github.com/rivo/tview"
)

// InviteList shows pending invites with accept/reject actions.
type InviteList struct {
	*tview.Table
	invites  []store.Invite
	onAccept func(id string)
	onReject func(id string)
}

// NewInviteList creates the invite inbox table.
func NewInviteList(theme *ui.Theme) *InviteList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true).
		SetTitle(" Invites  (a accept / d reject) ").
		SetTitleColor(theme.TitleColor).
		SetBorderColor(theme.BorderColor)

	il := &InviteList{Table: table}
	table.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() != tcell.KeyRune {
			return ev
		}
		switch ev.Rune() {
		case 'a':
			if id := il.selectedID(); id != "" && il.onAccept != nil {
				il.onAccept(id)
			}
			return nil
		case 'd':
			if id := il.selectedID(); id != "" && il.onReject != nil {
				il.onReject(id)
			}
			return nil
		}
		return ev
	})
	return il
}

// SetOnAccept sets the accept callback.
func (il *InviteList) SetOnAccept(fn func(id string)) { il.onAccept = fn }

// SetOnReject sets the reject callback.
func (il *InviteList) SetOnReject(fn func(id string)) { il.onReject = fn }

// Update refreshes the invite rows.
func (il *InviteList) Update(invites []store.Invite) {
	il.invites = invites
	il.Clear()

	il.SetCell(0, 0, tview.NewTableCell(" From").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	il.SetCell(0, 1, tview.NewTableCell(" Email").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	il.SetCell(0, 2, tview.NewTableCell(" Received").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, inv := range invites {
		row := i + 1
		il.SetCell(row, 0, tview.NewTableCell(" "+inv.Sender.Username).SetMaxWidth(24).SetExpansion(1))
		il.SetCell(row, 1, tview.NewTableCell(" "+inv.Sender.Email).SetMaxWidth(36).SetExpansion(2))
		il.SetCell(row, 2, tview.NewTableCell(" "+formatReceived(inv.CreatedAt)).SetMaxWidth(12))
	}

	if len(invites) == 0 {
		il.SetCell(1, 0, tview.NewTableCell(" no pending invites").SetSelectable(false))
	} else if row, _ := il.GetSelection(); row < 1 || row > len(invites) {
		il.Select(1, 0)
	}
}

func (il *InviteList) selectedID() string {
	row, _ := il.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(il.invites) {
		return il.invites[idx].ID
	}
	return ""
}

func formatReceived(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}
