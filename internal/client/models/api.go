package models

// Credentials is the body of both /auth/login and /auth/register.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the decoded success body of /auth/login. Raw keeps every
// field the server sent, access_token included.
type LoginResponse struct {
	AccessToken string
	Raw         map[string]any
}

// RegisterResponse is the success body of /auth/register. Success is nil
// when the server did not send the flag at all.
type RegisterResponse struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

// Failed reports whether the server flagged a logical failure.
func (r RegisterResponse) Failed() bool {
	return r.Success != nil && !*r.Success
}

// Text returns whichever human-readable message the server provided.
func (r RegisterResponse) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Msg
}

// MessageResponse is the body returned by task mutations.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// NewTask is the body of POST /api/tasks/.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
