package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kshzz24/scalable-chat-app/internal/chatlist"
	"github.com/kshzz24/scalable-chat-app/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChatList is the main chat list view.
type ChatList struct {
	*tview.Table
	theme    *ui.Theme
	chats    []chatlist.ViewModel
	onSelect func(id string)
}

// NewChatList creates a new chat list table.
func NewChatList(theme *ui.Theme) *ChatList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true).
		SetTitle(" Chats ").
		SetTitleColor(theme.TitleColor).
		SetBorderColor(theme.BorderColor)

	cl := &ChatList{Table: table, theme: theme}
	table.SetSelectedFunc(func(row, _ int) {
		idx := row - 1
		if cl.onSelect != nil && idx >= 0 && idx < len(cl.chats) {
			cl.onSelect(cl.chats[idx].ID)
		}
	})
	return cl
}

// SetOnSelect sets the callback when a chat is opened.
func (cl *ChatList) SetOnSelect(fn func(id string)) {
	cl.onSelect = fn
}

// Update refreshes the chat list with new view models.
func (cl *ChatList) Update(chats []chatlist.ViewModel) {
	cl.chats = chats
	cl.Clear()

	cl.SetCell(0, 0, tview.NewTableCell(" Name").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 1, tview.NewTableCell(" Members").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))
	cl.SetCell(0, 2, tview.NewTableCell(" Unread").SetSelectable(false).SetTextColor(tview.Styles.SecondaryTextColor))

	for i, chat := range chats {
		row := i + 1
		name := chat.DisplayName
		if chat.IsGroup {
			name = "# " + name
		}

		unread := ""
		if chat.UnreadCount > 0 {
			unread = fmt.Sprintf("[red]%d[-]", chat.UnreadCount)
			name = fmt.Sprintf("[::b]%s[-:-:-]", name)
		}

		cl.SetCell(row, 0, tview.NewTableCell(" "+name).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(row, 1, tview.NewTableCell(" "+memberSummary(chat)).SetMaxWidth(40).SetExpansion(2))
		cl.SetCell(row, 2, tview.NewTableCell(" "+unread).SetMaxWidth(8).SetAlign(tview.AlignRight))
	}

	if len(chats) > 0 {
		if row, _ := cl.GetSelection(); row < 1 || row > len(chats) {
			cl.Select(1, 0)
		}
	}
}

// SelectedChat returns the id of the currently selected chat.
func (cl *ChatList) SelectedChat() string {
	row, _ := cl.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(cl.chats) {
		return cl.chats[idx].ID
	}
	return ""
}

func memberSummary(chat chatlist.ViewModel) string {
	names := make([]string, 0, len(chat.Recipients))
	for _, c := range chat.Recipients {
		names = append(names, c.Username)
	}
	return strings.Join(names, ", ")
}

// SearchBar is the inline filter input above the chat list.
type SearchBar struct {
	*tview.InputField
	onChange func(term string)
	onDone   func()
}

// NewSearchBar creates the filter input.
func NewSearchBar() *SearchBar {
	input := tview.NewInputField().
		SetLabel(" Filter: ").
		SetFieldWidth(0)

	sb := &SearchBar{InputField: input}
	input.SetChangedFunc(func(text string) {
		if sb.onChange != nil {
			sb.onChange(text)
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			input.SetText("")
			if sb.onChange != nil {
				sb.onChange("")
			}
		}
		if sb.onDone != nil {
			sb.onDone()
		}
	})
	return sb
}

// SetOnChange sets the callback fired on every keystroke.
func (sb *SearchBar) SetOnChange(fn func(term string)) { sb.onChange = fn }

// SetOnDone sets the callback fired when the input is dismissed.
func (sb *SearchBar) SetOnDone(fn func()) { sb.onDone = fn }
