package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/client/client"
	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// Generic failure texts. Server detail is never shown.
const (
	msgCreateFailed = "Failed to create task"
	msgUpdateFailed = "Failed to update task"
	msgDeleteFailed = "Failed to delete task"
)

// Session is what the task engine needs from the session store.
type Session interface {
	Token() string
	SignOut(ctx context.Context)
}

// Notifier receives mutation outcomes.
type Notifier interface {
	Notify(n models.Notification)
}

// TaskEngine caches the user's task list and drives the create/edit form.
// The cache only ever changes by wholesale replacement from a list call;
// every successful mutation invalidates and reloads it.
type TaskEngine struct {
	client   client.Client
	session  Session
	notifier Notifier
	log      logging.Logger

	mu       sync.Mutex
	tasks    []models.Task
	stale    bool
	gen      uint64
	detached bool
	modal    Modal
	form     models.Form
}

func NewTaskEngine(c client.Client, session Session, notifier Notifier, log logging.Logger) *TaskEngine {
	return &TaskEngine{
		client:   c,
		session:  session,
		notifier: notifier,
		log:      log.With("component", "tasks"),
		stale:    true,
		modal:    Closed{},
		form:     models.EmptyForm(),
	}
}

// Tasks returns a copy of the cached list.
func (e *TaskEngine) Tasks() []models.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Task, len(e.tasks))
	copy(out, e.tasks)
	return out
}

// Stale reports whether the cache has been invalidated and not yet
// reloaded.
func (e *TaskEngine) Stale() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stale
}

func (e *TaskEngine) Modal() Modal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modal
}

func (e *TaskEngine) Form() models.Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// Detach marks the engine's view as gone. Responses that arrive afterwards
// change nothing and emit no notifications.
func (e *TaskEngine) Detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.detached = true
}

func (e *TaskEngine) isDetached() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detached
}

// Invalidate marks the cache stale and orphans any list call in flight.
func (e *TaskEngine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stale = true
	e.gen++
}

// Reload invalidates the cache and fetches it again.
func (e *TaskEngine) Reload(ctx context.Context) error {
	e.Invalidate()
	return e.List(ctx)
}

// List replaces the cache with the server's list. A failure is logged and
// leaves the previous cache in place; a rejected token signs the session
// out. A response is applied only if no later List started meanwhile.
func (e *TaskEngine) List(ctx context.Context) error {
	e.mu.Lock()
	e.gen++
	gen := e.gen
	e.mu.Unlock()

	tasks, err := e.client.ListTasks(ctx, e.session.Token())

	e.mu.Lock()
	if e.detached || gen != e.gen {
		e.mu.Unlock()
		e.log.Debug(ctx, "dropping stale task list", "generation", gen)
		return nil
	}
	if err == nil {
		e.tasks = tasks
		e.stale = false
	}
	e.mu.Unlock()

	if err != nil {
		e.log.Error(ctx, "list tasks", "error", err)
		if errors.Is(err, client.ErrUnauthorized) {
			e.session.SignOut(ctx)
		}
		return fmt.Errorf("list tasks: %w", err)
	}
	return nil
}

// mutate runs call with the current token and reports the outcome. On
// success the cache is reloaded and the server message is returned.
func (e *TaskEngine) mutate(ctx context.Context, op, failure string, call func(token string) (string, error)) (bool, error) {
	msg, err := call(e.session.Token())
	if e.isDetached() {
		return false, err
	}
	if err != nil {
		e.log.Warn(ctx, op+" failed", "error", err)
		e.notifier.Notify(models.Failure(failure))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	e.notifier.Notify(models.Success(msg))
	_ = e.Reload(ctx)
	return true, nil
}

// Create adds a task. An empty title is ignored without a call. On failure
// the form stays as it was; on success it is reset and closed.
func (e *TaskEngine) Create(ctx context.Context, title, description string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	ok, err := e.mutate(ctx, "create task", msgCreateFailed, func(token string) (string, error) {
		return e.client.CreateTask(ctx, token, models.NewTask{Title: title, Description: description})
	})
	if ok {
		e.closeModal()
	}
	return err
}

// Update replaces all editable fields of task id. Reporting and closing
// follow Create.
func (e *TaskEngine) Update(ctx context.Context, id int64, title, description string, status models.TaskStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	ok, err := e.mutate(ctx, "update task", msgUpdateFailed, func(token string) (string, error) {
		return e.client.UpdateTask(ctx, token, id, models.FullPatch(title, description, status))
	})
	if ok {
		e.closeModal()
	}
	return err
}

// CanMarkComplete is false for a cached task that is already completed.
// Tasks not in the cache are left to the server.
func (e *TaskEngine) CanMarkComplete(id int64) bool {
	t, ok := e.cached(id)
	return !ok || !t.IsCompleted()
}

// MarkComplete sets the status of task id to completed regardless of the
// form. It is refused with ErrAlreadyCompleted when CanMarkComplete is
// false.
func (e *TaskEngine) MarkComplete(ctx context.Context, id int64) error {
	if !e.CanMarkComplete(id) {
		return ErrAlreadyCompleted
	}

	_, err := e.mutate(ctx, "complete task", msgUpdateFailed, func(token string) (string, error) {
		return e.client.UpdateTask(ctx, token, id, models.StatusPatch(models.StatusCompleted))
	})
	return err
}

// Delete removes task id. On failure the cache is untouched.
func (e *TaskEngine) Delete(ctx context.Context, id int64) error {
	_, err := e.mutate(ctx, "delete task", msgDeleteFailed, func(token string) (string, error) {
		return e.client.DeleteTask(ctx, token, id)
	})
	return err
}

func (e *TaskEngine) cached(id int64) (models.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

// OpenCreate moves Closed -> Creating with an empty form.
func (e *TaskEngine) OpenCreate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if IsOpen(e.modal) {
		return ErrModalOpen
	}
	e.modal = Creating{}
	e.form = models.EmptyForm()
	return nil
}

// OpenEdit moves Closed -> Editing(id) with the form filled from the cached
// task.
func (e *TaskEngine) OpenEdit(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if IsOpen(e.modal) {
		return ErrModalOpen
	}
	for _, t := range e.tasks {
		if t.ID == id {
			e.modal = Editing{ID: id}
			e.form = models.FormFromTask(t)
			return nil
		}
	}
	return ErrTaskNotFound
}

// Cancel closes the form and discards its contents.
func (e *TaskEngine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !IsOpen(e.modal) {
		return ErrModalClosed
	}
	e.modal = Closed{}
	e.form = models.EmptyForm()
	return nil
}

func (e *TaskEngine) closeModal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.modal = Closed{}
	e.form = models.EmptyForm()
}

func (e *TaskEngine) editForm(fn func(f *models.Form)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !IsOpen(e.modal) {
		return ErrModalClosed
	}
	fn(&e.form)
	return nil
}

func (e *TaskEngine) SetTitle(title string) error {
	return e.editForm(func(f *models.Form) { f.Title = title })
}

func (e *TaskEngine) SetDescription(description string) error {
	return e.editForm(func(f *models.Form) { f.Description = description })
}

func (e *TaskEngine) SetStatus(status models.TaskStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return e.editForm(func(f *models.Form) { f.Status = status })
}

// Submit sends the open form: Creating creates, Editing updates.
func (e *TaskEngine) Submit(ctx context.Context) error {
	e.mu.Lock()
	modal, form := e.modal, e.form
	e.mu.Unlock()

	switch m := modal.(type) {
	case Creating:
		return e.Create(ctx, form.Title, form.Description)
	case Editing:
		return e.Update(ctx, m.ID, form.Title, form.Description, form.Status)
	default:
		return ErrModalClosed
	}
}
