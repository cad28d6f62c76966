package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/guard"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/client/services"
)

var errUsage = errors.New("usage")

// dashboard returns the mounted engine after asking the guard. A redirect
// is followed right away.
func (a *App) dashboard() (*services.TaskEngine, bool) {
	switch d := guard.Check(a.session); d.Outcome {
	case guard.Pending:
		printlnFn("Loading session...")
		return nil, false
	case guard.Redirect:
		a.Navigate(d.Target, d.Replace)
		printlnFn("Please sign in first")
		return nil, false
	}
	if a.engine == nil {
		printlnFn("Dashboard is not open")
		return nil, false
	}
	return a.engine, true
}

// List refetches the tasks and prints them. A failed fetch is logged by the
// engine; the last known list is printed with a hint.
func (a *App) List(ctx context.Context) error {
	e, ok := a.dashboard()
	if !ok {
		return nil
	}
	err := e.Reload(ctx)
	if a.engine == e {
		a.printTasks()
	}
	return err
}

func (a *App) New(ctx context.Context) error {
	e, ok := a.dashboard()
	if !ok {
		return nil
	}
	if err := e.OpenCreate(); err != nil {
		printErr(err)
		return err
	}
	printlnFn("New task form opened: set title and description, then submit")
	return nil
}

func (a *App) Edit(ctx context.Context, arg string) error {
	e, ok := a.dashboard()
	if !ok {
		return nil
	}
	id, err := parseID("edit", arg)
	if err != nil {
		return err
	}
	if err := e.OpenEdit(id); err != nil {
		printErr(err)
		return err
	}
	printForm(e.Modal(), e.Form())
	return nil
}

// Done marks a task completed without touching an open form.
func (a *App) Done(ctx context.Context, arg string) error {
	e, ok := a.dashboard()
	if !ok {
		return nil
	}
	id, err := parseID("done", arg)
	if err != nil {
		return err
	}
	return a.afterMutation(e, e.MarkComplete(ctx, id))
}

func (a *App) Delete(ctx context.Context, arg string) error {
	e, ok := a.dashboard()
	if !ok {
		return nil
	}
	id, err := parseID("delete", arg)
	if err != nil {
		return err
	}
	return a.afterMutation(e, e.Delete(ctx, id))
}

func (a *App) Title(ctx context.Context) error {
	e, ok := a.dashboard()
	if !ok {
		return nil
	}
	if !services.IsOpen(e.Modal()) {
		printErr(services.ErrModalClosed)
		return services.ErrModalClosed
	}
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	return a.report(e.SetTitle(title))
}

func (a *App) Description(ctx context.Context) error {
	e, ok := a.dashboard()
	if !ok {
		return nil
	}
	if !services.IsOpen(e.Modal()) {
		printErr(services.ErrModalClosed)
		return services.ErrModalClosed
	}
	text, err := getMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}
	return a.report(e.SetDescription(text))
}

func (a *App) Status(ctx context.Context, arg string) error {
	e, ok := a.dashboard()
	if !ok {
		return nil
	}
	if arg == "" {
		printlnFn("Usage: status <" + joinStatuses() + ">")
		return errUsage
	}
	return a.report(e.SetStatus(models.TaskStatus(arg)))
}

// Submit sends the open form. An empty title on a new task is ignored.
func (a *App) Submit(ctx context.Context) error {
	e, ok := a.dashboard()
	if !ok {
		return nil
	}
	if _, creating := e.Modal().(services.Creating); creating && strings.TrimSpace(e.Form().Title) == "" {
		printlnFn("Title is empty, nothing to submit")
		return nil
	}
	return a.afterMutation(e, e.Submit(ctx))
}

func (a *App) Cancel(ctx context.Context) error {
	e, ok := a.dashboard()
	if !ok {
		return nil
	}
	return a.report(e.Cancel())
}

// afterMutation prints local refusals and, on success, the refreshed list.
// Transport failures were already shown as a notification.
func (a *App) afterMutation(e *services.TaskEngine, err error) error {
	if err != nil {
		if !notified(err) {
			printErr(err)
		}
		return err
	}
	if a.engine == e {
		a.printTasks()
	}
	return nil
}

func (a *App) report(err error) error {
	if err != nil {
		printErr(err)
	}
	return err
}

func (a *App) printTasks() {
	if a.engine == nil {
		return
	}
	printlnFn(renderTasks(a.engine.Tasks(), a.session.User().IsAdmin()))
	if a.engine.Stale() {
		printlnFn("(list may be out of date)")
	}
}

// notified reports whether the task engine already surfaced err as a
// notification.
func notified(err error) bool {
	for _, target := range []error{
		client.ErrUnauthorized,
		client.ErrNotFound,
		client.ErrUnavailable,
		client.ErrRequestFailed,
		context.Canceled,
		context.DeadlineExceeded,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// printErr prints the user-facing text of err. Validation errors print one
// line per field.
func printErr(err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		for _, field := range []string{services.FieldForm, services.FieldEmail, services.FieldPassword} {
			msg := ve.Field(field)
			switch {
			case msg == "":
			case field == services.FieldForm:
				printlnFn(msg)
			default:
				printlnFn(fmt.Sprintf("%s: %s", field, msg))
			}
		}
		return
	}
	printlnFn(services.UserMessage(err))
}

func parseID(cmd, arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
		return 0, errUsage
	}
	return id, nil
}

func joinStatuses() string {
	out := make([]string, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		out = append(out, string(s))
	}
	return strings.Join(out, "|")
}
