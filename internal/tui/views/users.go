package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kshzz24/scalable-chat-app/internal/store"
	"github.com/kshzz24/scalable-chat-app/internal/tui/ui"
	"github.com/rivo/tview"
)

// UserPicker is a filterable multi-select over directory users. Used for
// sending invites.
type UserPicker struct {
	*tview.Flex
	input        *tview.InputField
	table        *tview.Table
	all          []store.User
	visible      []store.User
	selected     map[string]bool
	onSubmit     func(ids []string)
	onCancel     func()
	onFilter     func()
	onFilterDone func()
}

// NewUserPicker creates the user picker.
func NewUserPicker(theme *ui.Theme) *UserPicker {
	up := &UserPicker{selected: make(map[string]bool)}

	up.input = tview.NewInputField().
		SetLabel(" Find: ").
		SetFieldWidth(0)
	up.input.SetChangedFunc(func(string) { up.render() })

	up.table = tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	up.table.SetBorder(true).
		SetTitle(" Invite Users  (space toggle / enter send / esc close) ").
		SetTitleColor(theme.TitleColor).
		SetBorderColor(theme.BorderColor)

	up.table.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch {
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			up.toggleSelected()
			return nil
		case ev.Key() == tcell.KeyEnter:
			if up.onSubmit != nil {
				up.onSubmit(up.SelectedIDs())
			}
			return nil
		case ev.Key() == tcell.KeyEscape:
			if up.onCancel != nil {
				up.onCancel()
			}
			return nil
		case ev.Key() == tcell.KeyRune && ev.Rune() == '/':
			if up.onFilter != nil {
				up.onFilter()
			}
			return nil
		}
		return ev
	})
	up.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter, tcell.KeyTab:
			if up.onFilterDone != nil {
				up.onFilterDone()
			}
		case tcell.KeyEscape:
			if up.onCancel != nil {
				up.onCancel()
			}
		}
	})

	up.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(up.input, 1, 0, false).
		AddItem(up.table, 0, 1, true)
	return up
}

// SetOnSubmit sets the callback invoked with the checked user ids.
func (up *UserPicker) SetOnSubmit(fn func(ids []string)) { up.onSubmit = fn }

// SetOnCancel sets the callback for dismissing the picker.
func (up *UserPicker) SetOnCancel(fn func()) { up.onCancel = fn }

// SetOnFilter sets the callback for moving focus into the filter input.
func (up *UserPicker) SetOnFilter(fn func()) { up.onFilter = fn }

// SetOnFilterDone sets the callback for leaving the filter input.
func (up *UserPicker) SetOnFilterDone(fn func()) { up.onFilterDone = fn }

// Input returns the filter input for focus handling.
func (up *UserPicker) Input() *tview.InputField { return up.input }

// Table returns the result table for focus handling.
func (up *UserPicker) Table() *tview.Table { return up.table }

// Update replaces the candidate users and re-renders. Selections for ids
// no longer present are dropped.
func (up *UserPicker) Update(users []store.User) {
	up.all = users
	present := make(map[string]bool, len(users))
	for _, u := range users {
		present[u.ID] = true
	}
	for id := range up.selected {
		if !present[id] {
			delete(up.selected, id)
		}
	}
	up.render()
}

// Reset clears the filter and all selections.
func (up *UserPicker) Reset() {
	up.input.SetText("")
	up.selected = make(map[string]bool)
	up.render()
}

// SelectedIDs returns the checked user ids in display order.
func (up *UserPicker) SelectedIDs() []string {
	var ids []string
	for _, u := range up.all {
		if up.selected[u.ID] {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

func (up *UserPicker) toggleSelected() {
	row, _ := up.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(up.visible) {
		return
	}
	id := up.visible[idx].ID
	if up.selected[id] {
		delete(up.selected, id)
	} else {
		up.selected[id] = true
	}
	up.render()
}

// Filter matches username or email, case-insensitively.
func (up *UserPicker) render() {
	term := strings.ToLower(up.input.GetText())
	up.visible = up.visible[:0]
	for _, u := range up.all {
		if term == "" ||
			strings.Contains(strings.ToLower(u.Username), term) ||
			strings.Contains(strings.ToLower(u.Email), term) {
			up.visible = append(up.visible, u)
		}
	}

	up.table.Clear()
	up.table.SetCell(0, 0, tview.NewTableCell("  ").SetSelectable(false))
	up.table.SetCell(0, 1, tview.NewTableCell(" Username").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	up.table.SetCell(0, 2, tview.NewTableCell(" Email").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, u := range up.visible {
		row := i + 1
		mark := "[ ]"
		if up.selected[u.ID] {
			mark = "[green][x][-]"
		}
		up.table.SetCell(row, 0, tview.NewTableCell(" "+mark))
		up.table.SetCell(row, 1, tview.NewTableCell(" "+u.Username).SetMaxWidth(24).SetExpansion(1))
		up.table.SetCell(row, 2, tview.NewTableCell(" "+u.Email).SetMaxWidth(36).SetExpansion(2))
	}

	if len(up.visible) > 0 {
		if row, _ := up.table.GetSelection(); row < 1 || row > len(up.visible) {
			up.table.Select(1, 0)
		}
	}
}
