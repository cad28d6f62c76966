package models

// View names a top-level screen of the client.
type View string

const (
	ViewSignIn    View = "sign-in"
	ViewDashboard View = "dashboard"
)
