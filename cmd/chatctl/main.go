package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kshzz24/scalable-chat-app/internal/api"
	"github.com/kshzz24/scalable-chat-app/internal/bus"
	"github.com/kshzz24/scalable-chat-app/internal/chatlist"
	"github.com/kshzz24/scalable-chat-app/internal/config"
	"github.com/kshzz24/scalable-chat-app/internal/contacts"
	"github.com/kshzz24/scalable-chat-app/internal/gate"
	"github.com/kshzz24/scalable-chat-app/internal/logging"
	"github.com/kshzz24/scalable-chat-app/internal/profile"
	"github.com/kshzz24/scalable-chat-app/internal/schema"
	"github.com/kshzz24/scalable-chat-app/internal/session"
	"github.com/kshzz24/scalable-chat-app/internal/store"
)

// ctl bundles the client core for one invocation.
type ctl struct {
	client   *api.Client
	session  *session.Store
	contacts *contacts.Store
	jsonOut  bool
}

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	verboseFlag := flag.Bool("verbose", false, "log to stderr as well as the profile log file")
	groupFlag := flag.Bool("group", false, "create a group chat (create-chat only)")
	nameFlag := flag.String("name", "", "group chat name (create-chat only)")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	c, db, err := open(profileName, *jsonFlag, *verboseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch args[0] {
	case "register":
		requireArgs(args, 4, "usage: chatctl register <username> <email> <password>")
		c.cmdRegister(ctx, args[1], args[2], args[3])
	case "login":
		requireArgs(args, 3, "usage: chatctl login <email> <password>")
		c.cmdLogin(ctx, args[1], args[2])
	case "logout":
		c.cmdLogout(ctx)
	case "whoami":
		c.cmdWhoami(ctx)
	case "users":
		c.requireAuth()
		c.cmdUsers(ctx)
	case "contacts":
		c.requireAuth()
		c.cmdContacts()
	case "invite":
		requireArgs(args, 2, "usage: chatctl invite <userId> [userId...]")
		c.requireAuth()
		c.cmdInvite(ctx, args[1:])
	case "invites":
		c.requireAuth()
		switch {
		case len(args) == 1 || args[1] == "list":
			c.cmdInvitesList(ctx)
		case args[1] == "accept" && len(args) == 3:
			c.cmdInviteDecide(ctx, args[2], true)
		case args[1] == "reject" && len(args) == 3:
			c.cmdInviteDecide(ctx, args[2], false)
		default:
			fmt.Fprintln(os.Stderr, "usage: chatctl invites [list|accept <id>|reject <id>]")
			os.Exit(1)
		}
	case "chats":
		c.requireAuth()
		c.cmdChats(ctx)
	case "chat":
		requireArgs(args, 2, "usage: chatctl chat <id>")
		c.requireAuth()
		c.cmdChat(ctx, args[1])
	case "create-chat":
		requireArgs(args, 2, "usage: chatctl [--group --name <name>] create-chat <contactId> [contactId...]")
		c.requireAuth()
		c.cmdCreateChat(ctx, *groupFlag, *nameFlag, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func open(profileName string, jsonOut, verbose bool) (*ctl, *store.DB, error) {
	if err := profile.EnsureDir(profileName); err != nil {
		return nil, nil, err
	}
	// There is no terminal to protect here, so --verbose can tee to stderr.
	newLogger := logging.NewFileOnly
	if verbose {
		newLogger = logging.New
	}
	logger, err := newLogger(profile.LogPath(profileName), profileName)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Open(profile.DBPath(profileName))
	if err != nil {
		return nil, nil, err
	}
	if _, err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	b := bus.New()
	sess, err := session.New(db, b)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	cts, err := contacts.New(db, b)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	cfg := config.Resolve(profile.ConfigPath())
	return &ctl{
		client:   api.New(cfg.APIBaseURL, sess, logger),
		session:  sess,
		contacts: cts,
		jsonOut:  jsonOut,
	}, db, nil
}

func requireArgs(args []string, n int, usage string) {
	if len(args) < n {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
}

func (c *ctl) requireAuth() {
	if d := gate.Protected(c.session.User()); !d.Allow {
		fmt.Fprintln(os.Stderr, "error: not logged in (run 'chatctl login')")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: chatctl [--profile <name>] [--json] [--verbose] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  register <username> <email> <password>  Create an account")
	fmt.Fprintln(os.Stderr, "  login <email> <password>                Log in and persist the session")
	fmt.Fprintln(os.Stderr, "  logout                                  Log out and clear the session")
	fmt.Fprintln(os.Stderr, "  whoami                                  Show the signed-in identity")
	fmt.Fprintln(os.Stderr, "  users                                   List invitable users")
	fmt.Fprintln(os.Stderr, "  contacts                                List cached contacts")
	fmt.Fprintln(os.Stderr, "  invite <userId>...                      Send contact invites")
	fmt.Fprintln(os.Stderr, "  invites [list]                          List pending invites")
	fmt.Fprintln(os.Stderr, "  invites accept <id>                     Accept an invite")
	fmt.Fprintln(os.Stderr, "  invites reject <id>                     Reject an invite")
	fmt.Fprintln(os.Stderr, "  chats                                   List chats")
	fmt.Fprintln(os.Stderr, "  chat <id>                               Show one chat")
	fmt.Fprintln(os.Stderr, "  create-chat [--group --name <name>] <contactId>...")
	fmt.Fprintln(os.Stderr, "                                          Create a direct or group chat")
}

func (c *ctl) cmdRegister(ctx context.Context, username, email, password string) {
	form := schema.RegisterForm{Username: username, Email: email, Password: password, ConfirmPassword: password}
	if errs := form.Validate(); len(errs) > 0 {
		for _, msg := range errs {
			fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		}
		os.Exit(1)
	}
	u, err := c.client.Register(ctx, api.RegisterRequest{Username: username, Email: email, Password: password})
	exitOn(err)
	if c.jsonOut {
		outputJSON(u)
		return
	}
	fmt.Printf("Registered %s <%s>. Log in to continue.\n", u.Username, u.Email)
}

func (c *ctl) cmdLogin(ctx context.Context, email, password string) {
	form := schema.LoginForm{Email: email, Password: password}
	if errs := form.Validate(); len(errs) > 0 {
		for _, msg := range errs {
			fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		}
		os.Exit(1)
	}
	resp, err := c.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	exitOn(err)
	u := resp.User
	u.Token = resp.Token
	exitOn(c.session.SetUser(u))
	c.hydrateContacts(ctx)
	if c.jsonOut {
		outputJSON(c.session.User())
		return
	}
	fmt.Printf("Logged in as %s\n", u.Username)
}

func (c *ctl) cmdLogout(ctx context.Context) {
	if c.session.User() != nil {
		// Best effort; local state is cleared regardless.
		_ = c.client.Logout(ctx)
	}
	exitOn(c.session.Clear())
	exitOn(c.contacts.Reset())
	fmt.Println("Logged out")
}

func (c *ctl) cmdWhoami(ctx context.Context) {
	u := c.session.User()
	if u == nil {
		fmt.Println("Not logged in")
		return
	}
	if fresh, err := c.client.CurrentUser(ctx); err == nil {
		fresh.Token = u.Token
		_ = c.session.SetUser(*fresh)
		u = fresh
	}
	if c.jsonOut {
		outputJSON(u)
		return
	}
	fmt.Printf("User:     %s\n", u.Username)
	fmt.Printf("Email:    %s\n", u.Email)
	fmt.Printf("Id:       %s\n", u.ID)
	fmt.Printf("Contacts: %d\n", len(u.Contacts))
}

func (c *ctl) cmdUsers(ctx context.Context) {
	users, err := c.client.ListUsers(ctx)
	exitOn(err)
	if c.jsonOut {
		outputJSON(users)
		return
	}
	for _, u := range users {
		fmt.Printf("%s  %s <%s>\n", u.ID, u.Username, u.Email)
	}
}

func (c *ctl) cmdContacts() {
	list := c.contacts.All()
	if c.jsonOut {
		outputJSON(list)
		return
	}
	for _, ct := range list {
		fmt.Printf("%s  %s <%s>\n", ct.ID, ct.Username, ct.Email)
	}
}

func (c *ctl) cmdInvite(ctx context.Context, receiverIDs []string) {
	exitOn(c.client.SendInvites(ctx, receiverIDs))
	fmt.Printf("Sent %d invite(s)\n", len(receiverIDs))
}

func (c *ctl) cmdInvitesList(ctx context.Context) {
	invites, err := c.client.MyInvites(ctx)
	exitOn(err)
	if c.jsonOut {
		outputJSON(invites)
		return
	}
	if len(invites) == 0 {
		fmt.Println("No pending invites")
		return
	}
	for _, inv := range invites {
		fmt.Printf("%s  %s <%s>  %s\n", inv.ID, inv.Sender.Username, inv.Sender.Email, inv.CreatedAt.Format(time.RFC3339))
	}
}

func (c *ctl) cmdInviteDecide(ctx context.Context, inviteID string, accept bool) {
	if accept {
		exitOn(c.client.AcceptInvite(ctx, inviteID))
		// The contact list grew; refresh the profile and the cache.
		if fresh, err := c.client.CurrentUser(ctx); err == nil {
			if u := c.session.User(); u != nil {
				fresh.Token = u.Token
			}
			_ = c.session.SetUser(*fresh)
		}
		c.hydrateContacts(ctx)
		fmt.Println("Invite accepted")
		return
	}
	exitOn(c.client.RejectInvite(ctx, inviteID))
	fmt.Println("Invite rejected")
}

func (c *ctl) cmdChats(ctx context.Context) {
	chats, err := c.client.ListChats(ctx)
	exitOn(err)
	c.hydrateContacts(ctx)

	u := c.session.User()
	models := chatlist.Build(chats, u.ID, c.contacts.ByID)
	if c.jsonOut {
		outputJSON(models)
		return
	}
	for _, m := range models {
		kind := "direct"
		if m.IsGroup {
			kind = "group"
		}
		unread := ""
		if m.UnreadCount > 0 {
			unread = fmt.Sprintf("  (%d unread)", m.UnreadCount)
		}
		fmt.Printf("%s  [%s] %s%s\n", m.ID, kind, m.DisplayName, unread)
	}
}

func (c *ctl) cmdChat(ctx context.Context, id string) {
	chat, err := c.client.ChatDetail(ctx, id)
	exitOn(err)
	if c.jsonOut {
		outputJSON(chat)
		return
	}
	fmt.Printf("Id:         %s\n", chat.ID)
	fmt.Printf("Group:      %v\n", chat.IsGroup)
	if chat.Name != "" {
		fmt.Printf("Name:       %s\n", chat.Name)
	}
	fmt.Printf("Recipients: %v\n", chat.Recipients)
}

func (c *ctl) cmdCreateChat(ctx context.Context, isGroup bool, name string, recipients []string) {
	if isGroup && name == "" {
		fmt.Fprintln(os.Stderr, "error: group chats need --name")
		os.Exit(1)
	}
	if !isGroup && len(recipients) != 1 {
		fmt.Fprintln(os.Stderr, "error: direct chats take exactly one contact id")
		os.Exit(1)
	}
	exitOn(c.client.CreateChat(ctx, api.CreateChatRequest{
		IsGroup:    isGroup,
		Recipients: recipients,
		Name:       name,
	}))
	fmt.Println("Chat created")
}

// hydrateContacts resolves the session user's contact ids and replaces
// the local cache. Failures leave the previous cache in place.
func (c *ctl) hydrateContacts(ctx context.Context) {
	u := c.session.User()
	if u == nil || len(u.Contacts) == 0 {
		return
	}
	list, err := c.client.ContactDetails(ctx, u.Contacts)
	if err != nil {
		return
	}
	_ = c.contacts.Replace(list)
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
