package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// fakeClient implements client.Client. Each method returns the configured
// values and records its arguments.
type fakeClient struct {
	mu sync.Mutex

	LoginRet *models.LoginResponse
	LoginErr error

	RegisterRet *models.RegisterResponse
	RegisterErr error

	UserRet *models.User
	UserErr error

	ListRet []models.Task
	ListErr error
	// ListHook, when set, runs inside ListTasks before it returns.
	ListHook func()

	CreateRet string
	CreateErr error
	UpdateRet string
	UpdateErr error
	DeleteRet string
	DeleteErr error

	Calls map[string]int

	LastLoginEmail    string
	LastLoginPassword string
	LastRegisterEmail string
	LastToken         string
	LastNewTask       models.NewTask
	LastUpdateID      int64
	LastPatch         models.TaskPatch
	LastDeleteID      int64
}

func newFakeClient() *fakeClient {
	return &fakeClient{Calls: map[string]int{}}
}

func (f *fakeClient) record(name, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls[name]++
	f.LastToken = token
}

func (f *fakeClient) calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Calls[name]
}

func (f *fakeClient) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		n += c
	}
	return n
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*models.LoginResponse, error) {
	f.record("Login", "")
	f.LastLoginEmail, f.LastLoginPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(_ context.Context, email, _ string) (*models.RegisterResponse, error) {
	f.record("Register", "")
	f.LastRegisterEmail = email
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) CurrentUser(_ context.Context, token string) (*models.User, error) {
	f.record("CurrentUser", token)
	return f.UserRet, f.UserErr
}

func (f *fakeClient) ListTasks(_ context.Context, token string) ([]models.Task, error) {
	f.record("ListTasks", token)
	if f.ListHook != nil {
		f.ListHook()
	}
	return f.ListRet, f.ListErr
}

func (f *fakeClient) CreateTask(_ context.Context, token string, t models.NewTask) (string, error) {
	f.record("CreateTask", token)
	f.LastNewTask = t
	return f.CreateRet, f.CreateErr
}

func (f *fakeClient) UpdateTask(_ context.Context, token string, id int64, p models.TaskPatch) (string, error) {
	f.record("UpdateTask", token)
	f.LastUpdateID, f.LastPatch = id, p
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) DeleteTask(_ context.Context, token string, id int64) (string, error) {
	f.record("DeleteTask", token)
	f.LastDeleteID = id
	return f.DeleteRet, f.DeleteErr
}

type fakeTokens struct {
	Token    string
	LoadErr  error
	SaveErr  error
	ClearErr error
	Saves    int
	Clears   int
}

func (f *fakeTokens) Load(context.Context) (string, error) { return f.Token, f.LoadErr }

func (f *fakeTokens) Save(_ context.Context, token string) error {
	f.Saves++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.Token = token
	return nil
}

func (f *fakeTokens) Clear(context.Context) error {
	f.Clears++
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.Token = ""
	return nil
}

type navigation struct {
	View    models.View
	Replace bool
}

type fakeNav struct {
	History []navigation
}

func (f *fakeNav) Navigate(view models.View, replace bool) {
	f.History = append(f.History, navigation{View: view, Replace: replace})
}

func (f *fakeNav) last() navigation {
	if len(f.History) == 0 {
		return navigation{}
	}
	return f.History[len(f.History)-1]
}

type fakeNotifier struct {
	All []models.Notification
}

func (f *fakeNotifier) Notify(n models.Notification) { f.All = append(f.All, n) }

func (f *fakeNotifier) last() models.Notification {
	if len(f.All) == 0 {
		return models.Notification{}
	}
	return f.All[len(f.All)-1]
}

// fakeSession is a minimal Session for engine tests.
type fakeSession struct {
	token    string
	signOuts int
}

func (f *fakeSession) Token() string { return f.token }

func (f *fakeSession) SignOut(context.Context) {
	f.signOuts++
	f.token = ""
}
