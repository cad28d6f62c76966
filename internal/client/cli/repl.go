package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs. The real App type
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	currentView() models.View
	syncView(ctx context.Context)

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	List(ctx context.Context) error
	New(ctx context.Context) error
	Edit(ctx context.Context, arg string) error
	Done(ctx context.Context, arg string) error
	Delete(ctx context.Context, arg string) error
	Title(ctx context.Context) error
	Description(ctx context.Context) error
	Status(ctx context.Context, arg string) error
	Submit(ctx context.Context) error
	Cancel(ctx context.Context) error
}

const (
	helpSignIn    = "Available commands: register, login, exit"
	helpDashboard = "Available commands: (l)ist, new, edit <id>, done <id>, delete <id>, title, description, status <value>, submit, cancel, whoami, logout, exit"
)

// runREPL reads a line from reader, parses the first token as the command
// and dispatches to a. Commands are scoped to the current screen: sign-in
// accepts register and login, the dashboard accepts the task commands.
// After each command the screen is re-synchronised so a sign-in or a
// forced sign-out takes effect before the next prompt. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed by the handlers
// themselves; the loop only keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tk> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, arg := parts[0], strings.Join(parts[1:], " ")

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if a.currentView() == models.ViewDashboard {
			dispatchDashboard(ctx, a, cmd, arg)
		} else {
			dispatchSignIn(ctx, a, cmd)
		}
		a.syncView(ctx)
	}
}

func dispatchSignIn(ctx context.Context, a execIface, cmd string) {
	switch cmd {
	case "help":
		printlnFn(helpSignIn)
	case "register":
		_ = a.Register(ctx)
	case "login":
		_ = a.Login(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}

func dispatchDashboard(ctx context.Context, a execIface, cmd, arg string) {
	switch cmd {
	case "help":
		printlnFn(helpDashboard)
	case "l", "list":
		_ = a.List(ctx)
	case "new":
		_ = a.New(ctx)
	case "edit":
		_ = a.Edit(ctx, arg)
	case "done":
		_ = a.Done(ctx, arg)
	case "delete":
		_ = a.Delete(ctx, arg)
	case "title":
		_ = a.Title(ctx)
	case "description":
		_ = a.Description(ctx)
	case "status":
		_ = a.Status(ctx, arg)
	case "submit":
		_ = a.Submit(ctx)
	case "cancel":
		_ = a.Cancel(ctx)
	case "whoami":
		_ = a.WhoAmI(ctx)
	case "logout":
		_ = a.Logout(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}
