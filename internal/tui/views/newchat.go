package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kshzz24/scalable-chat-app/internal/store"
	"github.com/kshzz24/scalable-chat-app/internal/tui/ui"
	"github.com/rivo/tview"
)

// NewChatForm collects the inputs for creating a chat: group toggle, an
// optional group name, and a contact selection.
type NewChatForm struct {
	*tview.Flex
	form     *tview.Form
	table    *tview.Table
	message  *tview.TextView
	contacts []store.Contact
	selected map[string]bool
	onSubmit func(isGroup bool, name string, recipientIDs []string)
	onCancel func()
}

// NewNewChatForm creates the chat creation view.
func NewNewChatForm(theme *ui.Theme) *NewChatForm {
	f := &NewChatForm{selected: make(map[string]bool)}

	f.form = tview.NewForm().
		AddCheckbox("Group chat", false, nil).
		AddInputField("Group name", "", 30, nil, nil)
	f.form.AddButton("Create", func() {
		if f.onSubmit != nil {
			f.onSubmit(f.isGroup(), f.name(), f.SelectedIDs())
		}
	})
	f.form.AddButton("Cancel", func() {
		if f.onCancel != nil {
			f.onCancel()
		}
	})
	f.form.SetBorder(true).
		SetTitle(" New Chat ").
		SetTitleColor(theme.TitleColor).
		SetBorderColor(theme.BorderColor)

	f.table = tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	f.table.SetBorder(true).
		SetTitle(" Contacts  (space toggle) ").
		SetTitleColor(theme.TitleColor).
		SetBorderColor(theme.BorderColor)
	f.table.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
			f.toggleSelected()
			return nil
		}
		if ev.Key() == tcell.KeyEscape {
			if f.onCancel != nil {
				f.onCancel()
			}
			return nil
		}
		return ev
	})

	f.message = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	f.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(f.form, 9, 0, true).
		AddItem(f.table, 0, 1, false).
		AddItem(f.message, 1, 0, false)
	return f
}

// SetOnSubmit sets the creation callback.
func (f *NewChatForm) SetOnSubmit(fn func(isGroup bool, name string, recipientIDs []string)) {
	f.onSubmit = fn
}

// SetOnCancel sets the dismiss callback.
func (f *NewChatForm) SetOnCancel(fn func()) { f.onCancel = fn }

// Form returns the input form for focus handling.
func (f *NewChatForm) Form() *tview.Form { return f.form }

// Table returns the contact table for focus handling.
func (f *NewChatForm) Table() *tview.Table { return f.table }

// ShowMessage renders a transient message below the contact list.
func (f *NewChatForm) ShowMessage(msg string) {
	f.message.SetText(msg)
}

// Update replaces the selectable contacts.
func (f *NewChatForm) Update(contacts []store.Contact) {
	f.contacts = contacts
	present := make(map[string]bool, len(contacts))
	for _, c := range contacts {
		present[c.ID] = true
	}
	for id := range f.selected {
		if !present[id] {
			delete(f.selected, id)
		}
	}
	f.render()
}

// Reset clears the form state.
func (f *NewChatForm) Reset() {
	f.form.GetFormItemByLabel("Group chat").(*tview.Checkbox).SetChecked(false)
	f.form.GetFormItemByLabel("Group name").(*tview.InputField).SetText("")
	f.selected = make(map[string]bool)
	f.message.SetText("")
	f.render()
}

// SelectedIDs returns the checked contact ids in display order.
func (f *NewChatForm) SelectedIDs() []string {
	var ids []string
	for _, c := range f.contacts {
		if f.selected[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (f *NewChatForm) isGroup() bool {
	return f.form.GetFormItemByLabel("Group chat").(*tview.Checkbox).IsChecked()
}

func (f *NewChatForm) name() string {
	return f.form.GetFormItemByLabel("Group name").(*tview.InputField).GetText()
}

func (f *NewChatForm) toggleSelected() {
	row, _ := f.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(f.contacts) {
		return
	}
	id := f.contacts[idx].ID
	if f.selected[id] {
		delete(f.selected, id)
	} else {
		f.selected[id] = true
	}
	f.render()
}

func (f *NewChatForm) render() {
	f.table.Clear()
	f.table.SetCell(0, 0, tview.NewTableCell("  ").SetSelectable(false))
	f.table.SetCell(0, 1, tview.NewTableCell(" Username").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	f.table.SetCell(0, 2, tview.NewTableCell(" Email").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, c := range f.contacts {
		row := i + 1
		mark := "[ ]"
		if f.selected[c.ID] {
			mark = "[green][x][-]"
		}
		f.table.SetCell(row, 0, tview.NewTableCell(" "+mark))
		f.table.SetCell(row, 1, tview.NewTableCell(" "+c.Username).SetMaxWidth(24).SetExpansion(1))
		f.table.SetCell(row, 2, tview.NewTableCell(" "+c.Email).SetMaxWidth(36).SetExpansion(2))
	}

	if len(f.contacts) == 0 {
		f.table.SetCell(1, 0, tview.NewTableCell(" no contacts yet").SetSelectable(false))
	}
}
