// Package session persists the access token between client runs. Values
// live in the session_values table created by the storage migrations; the
// token and the moment it was saved are always written together.
package session
