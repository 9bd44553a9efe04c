package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ListSermons(ctx context.Context, args []string) error
	NewSermon(ctx context.Context) error
	EditSermon(ctx context.Context, args []string) error
	DeleteSermon(ctx context.Context, args []string) error
	Drafts(ctx context.Context) error
	PublishDraft(ctx context.Context, args []string) error
	DiscardDraft(ctx context.Context, args []string) error
	Packages(ctx context.Context) error
	Buy(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
	Topics(ctx context.Context) error
	Session(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: register, login, theme [light|dark|toggle], exit"
	helpUser  = "Available commands: me, sermons [page], new, edit <id>, delete <id>, drafts, publish <draft>, discard <draft>, " +
		"packages, buy <package>, topics, session <conversation>, theme [light|dark|toggle], logout, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF, on "exit"/"quit", or when ctx is cancelled.
//
// Handlers print their own errors, so returned errors are ignored here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("sm %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if requiresLogin(cmd) && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "me":
			_ = a.WhoAmI(ctx)

		case "l", "sermons":
			_ = a.ListSermons(ctx, args)
		case "new":
			_ = a.NewSermon(ctx)
		case "edit":
			_ = a.EditSermon(ctx, args)
		case "delete":
			_ = a.DeleteSermon(ctx, args)

		case "drafts":
			_ = a.Drafts(ctx)
		case "publish":
			_ = a.PublishDraft(ctx, args)
		case "discard":
			_ = a.DiscardDraft(ctx, args)

		case "packages":
			_ = a.Packages(ctx)
		case "buy":
			_ = a.Buy(ctx, args)

		case "theme":
			_ = a.Theme(ctx, args)

		case "topics":
			_ = a.Topics(ctx)
		case "session":
			_ = a.Session(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func requiresLogin(cmd string) bool {
	switch cmd {
	case "logout", "me", "l", "sermons", "new", "edit", "delete", "drafts", "publish", "discard",
		"packages", "buy", "topics", "session":
		return true
	default:
		return false
	}
}

// argOrUsage returns args[0], or prints usage and returns false.
func argOrUsage(args []string, usage string) (string, bool) {
	if len(args) == 0 {
		printlnFn("Usage:", usage)
		return "", false
	}
	return args[0], true
}
