// Package tui is the terminal front end. All state lives in the core
// stores; the shell only renders the view model and forwards input.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kshzz24/scalable-chat-app/internal/gate"
	"github.com/kshzz24/scalable-chat-app/internal/schema"
	"github.com/kshzz24/scalable-chat-app/internal/status"
	"github.com/kshzz24/scalable-chat-app/internal/tui/keys"
	"github.com/kshzz24/scalable-chat-app/internal/tui/model"
	"github.com/kshzz24/scalable-chat-app/internal/tui/ui"
	"github.com/kshzz24/scalable-chat-app/internal/tui/views"
	"github.com/rivo/tview"
)

const flashTTL = 5 * time.Second

// App is the TUI application shell.
type App struct {
	app      *tview.Application
	pages    *ui.Pages
	vm       *model.ViewModel
	machine  *status.Machine
	registry *keys.Registry

	statusBar *views.StatusBar
	loginV    *views.LoginView
	registerV *views.RegisterView
	chatList  *views.ChatList
	searchBar *views.SearchBar
	searchRow *tview.Flex
	inviteV   *views.InviteList
	picker    *views.UserPicker
	newChatF  *views.NewChatForm

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(vm *model.ViewModel, machine *status.Machine, profileName string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:       tview.NewApplication(),
		pages:     ui.NewPages(),
		vm:        vm,
		machine:   machine,
		registry:  keys.NewRegistry(),
		statusBar: views.NewStatusBar(),
		loginV:    views.NewLoginView(theme),
		registerV: views.NewRegisterView(theme),
		chatList:  views.NewChatList(theme),
		searchBar: views.NewSearchBar(),
		inviteV:   views.NewInviteList(theme),
		picker:    views.NewUserPicker(theme),
		newChatF:  views.NewNewChatForm(theme),
		ctx:       ctx,
		cancel:    cancel,
	}

	a.statusBar.SetProfile(profileName)
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})

	a.registry.AddView("chats", "filter", &keys.Action{
		Rune: '/', Key: tcell.KeyRune,
		Description: "/:filter", Visible: true,
		Handler: func() { a.app.SetFocus(a.searchBar.InputField) },
	})
	a.registry.AddView("chats", "invites", &keys.Action{
		Rune: 'i', Key: tcell.KeyRune,
		Description: "i:invites", Visible: true,
		Handler: func() { a.showInvites() },
	})
	a.registry.AddView("chats", "users", &keys.Action{
		Rune: 'u', Key: tcell.KeyRune,
		Description: "u:invite", Visible: true,
		Handler: func() { a.showUserPicker() },
	})
	a.registry.AddView("chats", "newchat", &keys.Action{
		Rune: 'n', Key: tcell.KeyRune,
		Description: "n:new chat", Visible: true,
		Handler: func() { a.showNewChat() },
	})
	a.registry.AddView("chats", "reload", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:reload", Visible: true,
		Handler: func() { a.reloadAll() },
	})
	a.registry.AddView("chats", "logout", &keys.Action{
		Rune: 'L', Key: tcell.KeyRune,
		Description: "L:logout", Visible: true,
		Handler: func() { a.logout() },
	})
}

func (a *App) setupCallbacks() {
	a.loginV.SetOnSubmit(a.login)
	a.loginV.SetOnSwitch(func() { a.showPage("register") })
	a.registerV.SetOnSubmit(a.register)
	a.registerV.SetOnSwitch(func() { a.navigate(gate.RouteLogin) })

	a.searchBar.SetOnChange(func(term string) {
		a.vm.SetSearchTerm(term)
		a.chatList.Update(a.vm.ChatViewModels())
	})
	a.searchBar.SetOnDone(func() { a.app.SetFocus(a.chatList) })

	a.inviteV.SetOnAccept(func(id string) {
		go func() {
			if err := a.vm.AcceptInvite(a.ctx, id); err != nil {
				a.vm.Flash.Set("Accept failed: "+err.Error(), flashTTL)
			}
			a.queueRedraw()
		}()
	})
	a.inviteV.SetOnReject(func(id string) {
		go func() {
			if err := a.vm.RejectInvite(a.ctx, id); err != nil {
				a.vm.Flash.Set("Reject failed: "+err.Error(), flashTTL)
			}
			a.queueRedraw()
		}()
	})

	a.picker.SetOnSubmit(func(ids []string) {
		go func() {
			if err := a.vm.SendInvites(a.ctx, ids); err != nil {
				a.vm.Flash.Set("Invite failed: "+err.Error(), flashTTL)
			} else {
				a.app.QueueUpdateDraw(func() {
					a.picker.Reset()
					a.closeModal()
				})
			}
			a.queueRedraw()
		}()
	})
	a.picker.SetOnCancel(func() { a.closeModal() })
	a.picker.SetOnFilter(func() { a.app.SetFocus(a.picker.Input()) })
	a.picker.SetOnFilterDone(func() { a.app.SetFocus(a.picker.Table()) })

	a.newChatF.SetOnSubmit(func(isGroup bool, name string, recipientIDs []string) {
		go func() {
			if err := a.vm.CreateChat(a.ctx, isGroup, recipientIDs, name); err != nil {
				a.app.QueueUpdateDraw(func() {
					a.newChatF.ShowMessage("[red]" + err.Error() + "[-]")
				})
				return
			}
			a.app.QueueUpdateDraw(func() {
				a.newChatF.Reset()
				a.closeModal()
			})
			a.queueRedraw()
		}()
	})
	a.newChatF.SetOnCancel(func() { a.closeModal() })
}

func (a *App) setupLayout() {
	a.searchRow = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.searchBar, 1, 0, false).
		AddItem(a.chatList, 0, 1, true)

	// All pages start hidden; Run pushes the gated landing page.
	a.pages.AddPage("login", a.loginV, true, false)
	a.pages.AddPage("register", a.registerV, true, false)
	a.pages.AddPage("chats", a.searchRow, true, false)
	a.pages.AddPage("invites", a.inviteV, true, false)
	a.pages.AddPage("users", a.picker, true, false)
	a.pages.AddPage("newchat", a.newChatF, true, false)

	a.pages.SetOnChange(func(stack []string) {
		if len(stack) > 0 {
			a.statusBar.SetHints(a.registry.Hints(stack[len(stack)-1]))
		}
	})

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		currentPage := a.pages.Current()

		if event.Key() == tcell.KeyEscape {
			switch currentPage {
			case "invites", "users", "newchat":
				a.closeModal()
				return nil
			}
		}

		// Text inputs always get their keys.
		focused := a.app.GetFocus()
		if _, ok := focused.(*tview.InputField); ok {
			return event
		}
		switch currentPage {
		case "login", "register", "users", "newchat":
			return event
		}

		if a.registry.Dispatch(currentPage, event) {
			return nil
		}
		return event
	})
}

// navigate applies the access gates and lands on the page the decision
// allows.
func (a *App) navigate(route string) {
	u := a.vm.User()
	switch route {
	case gate.RouteHome:
		if d := gate.Protected(u); !d.Allow {
			a.navigate(d.Redirect)
			return
		}
		a.showPage("chats")
	case gate.RouteLogin:
		if d := gate.GuestOnly(u); !d.Allow {
			a.navigate(d.Redirect)
			return
		}
		a.showPage("login")
	}
}

func (a *App) showPage(name string) {
	a.pages.Reset(name)
	switch name {
	case "chats":
		a.app.SetFocus(a.chatList)
	case "login":
		a.loginV.Reset()
		a.app.SetFocus(a.loginV)
	case "register":
		a.app.SetFocus(a.registerV)
	}
}

func (a *App) showInvites() {
	a.pages.Push("invites")
	a.app.SetFocus(a.inviteV)
	go func() {
		_ = a.vm.LoadInvites(a.ctx)
		a.queueRedraw()
	}()
}

func (a *App) showUserPicker() {
	a.pages.Push("users")
	a.app.SetFocus(a.picker.Table())
	go func() {
		_ = a.vm.LoadUsers(a.ctx)
		a.queueRedraw()
	}()
}

func (a *App) showNewChat() {
	a.newChatF.Update(a.vm.Contacts())
	a.pages.Push("newchat")
	a.app.SetFocus(a.newChatF.Form())
}

func (a *App) closeModal() {
	a.pages.Pop()
	a.navigate(gate.RouteHome)
}

func (a *App) login(form schema.LoginForm) {
	_ = a.machine.Transition(status.Authenticating)
	go func() {
		errs, err := a.vm.Login(a.ctx, form)
		a.app.QueueUpdateDraw(func() {
			switch {
			case len(errs) > 0:
				_ = a.machine.Transition(status.LoggedOut)
				a.loginV.ShowErrors(errs)
			case err != nil:
				_ = a.machine.Transition(status.LoggedOut)
				a.loginV.ShowMessage("[red]" + err.Error() + "[-]")
			default:
				_ = a.machine.Transition(status.Ready)
				a.navigate(gate.RouteHome)
			}
			a.redraw()
		})
		if err == nil && len(errs) == 0 {
			a.reloadAll()
		}
	}()
}

func (a *App) register(form schema.RegisterForm) {
	go func() {
		errs, err := a.vm.Register(a.ctx, form)
		a.app.QueueUpdateDraw(func() {
			switch {
			case len(errs) > 0:
				a.registerV.ShowErrors(errs)
			case err != nil:
				a.registerV.ShowMessage("[red]" + err.Error() + "[-]")
			default:
				a.navigate(gate.RouteLogin)
				a.loginV.ShowMessage("Account created, log in to continue")
			}
		})
	}()
}

func (a *App) logout() {
	go func() {
		_ = a.vm.Logout(a.ctx)
		_ = a.machine.Transition(status.LoggedOut)
		a.app.QueueUpdateDraw(func() {
			a.picker.Reset()
			a.newChatF.Reset()
			a.navigate(gate.RouteLogin)
			a.redraw()
		})
	}()
}

func (a *App) reloadAll() {
	go func() {
		_ = a.vm.LoadChats(a.ctx)
		_ = a.vm.LoadInvites(a.ctx)
		_ = a.vm.LoadUsers(a.ctx)
		a.queueRedraw()
	}()
}

func (a *App) queueRedraw() {
	a.app.QueueUpdateDraw(a.redraw)
}

func (a *App) redraw() {
	a.chatList.Update(a.vm.ChatViewModels())
	a.inviteV.Update(a.vm.Invites())
	a.picker.Update(a.vm.Users())
	a.newChatF.Update(a.vm.Contacts())

	if u := a.vm.User(); u != nil {
		a.statusBar.SetUser(u.Username)
	} else {
		a.statusBar.SetUser("")
	}
	a.statusBar.SetStatus(string(a.machine.Current()))
	a.statusBar.SetFlash(a.vm.Flash.Get())
}

// Run starts the TUI. It lands on the gated home route first, so a
// rehydrated session opens straight on the chat list.
func (a *App) Run() error {
	a.navigate(gate.RouteHome)
	if a.vm.User() != nil {
		a.reloadAll()
	}
	go a.refreshLoop()
	return a.app.Run()
}

// Stop shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

func (a *App) refreshLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-a.vm.RefreshCh():
			a.queueRedraw()
		case <-ticker.C:
			// Flash messages expire on their own; redraw to drop them.
			a.queueRedraw()
		}
	}
}
