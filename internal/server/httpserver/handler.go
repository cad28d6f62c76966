package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type taskRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Status      *models.TaskStatus `json:"status"`
}

type userResponse struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// taskResponse carries CreatedBy only in admin listings.
type taskResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	CreatedBy   *string           `json:"created_by,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email already exists"})
			return
		}
		s.fail(w, r, err, "")
		return
	}

	s.logger.Info(r.Context(), "Registered", "email", u.Email, "id", u.ID)
	writeMsg(w, http.StatusCreated, "User created")
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decode(w, r, &req) {
		return
	}

	token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

func (s *HTTPServer) currentUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserResponse(*userFrom(r.Context())))
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	list, err := s.users.ListUsers(r.Context(), me)
	if err != nil {
		if errors.Is(err, common.ErrForbidden) {
			writeJSON(w, http.StatusForbidden, map[string]string{"msg": "You are not an admin", "role": string(me.Role)})
			return
		}
		s.fail(w, r, err, "")
		return
	}

	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) listTasks(w http.ResponseWriter, r *http.Request) {
	me := userFrom(r.Context())
	list, err := s.tasks.List(r.Context(), me)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}

	admin := me.Role == models.RoleAdmin
	out := make([]taskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTaskResponse(t, admin))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) createTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decode(w, r, &req) {
		return
	}

	_, err := s.tasks.Create(r.Context(), userFrom(r.Context()), deref(req.Title), deref(req.Description), req.Status)
	if err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeMsg(w, http.StatusCreated, "Task created")
}

func (s *HTTPServer) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	var req taskRequest
	if !decode(w, r, &req) {
		return
	}

	changes := models.TaskChanges{Title: req.Title, Description: req.Description, Status: req.Status}
	if err := s.tasks.Update(r.Context(), userFrom(r.Context()), id, changes); err != nil {
		s.fail(w, r, err, "Task not found")
		return
	}
	writeMsg(w, http.StatusOK, "Task updated")
}

func (s *HTTPServer) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := s.tasks.Delete(r.Context(), userFrom(r.Context()), id); err != nil {
		s.fail(w, r, err, "Task not found")
		return
	}
	writeMsg(w, http.StatusOK, "Task deleted")
}

// fail writes the response for a service error. notFound is the message
// used for common.ErrNotFound.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		body := make(map[string][]string, len(ve.Fields))
		for k, v := range ve.Fields {
			body[k] = []string{v}
		}
		writeJSON(w, http.StatusBadRequest, body)
	case notFound != "" && errors.Is(err, common.ErrNotFound):
		writeMsg(w, http.StatusNotFound, notFound)
	default:
		s.internalError(w, r, err)
	}
}

func (s *HTTPServer) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeMsg(w, http.StatusInternalServerError, "Internal server error")
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeMsg(w, http.StatusNotFound, "Task not found")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func toUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: u.Role}
}

func toTaskResponse(t models.Task, withOwner bool) taskResponse {
	out := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if withOwner {
		owner := t.OwnerEmail
		out.CreatedBy = &owner
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
