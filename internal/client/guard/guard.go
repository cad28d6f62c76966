// Package guard decides whether the protected dashboard may be shown.
package guard

import "github.com/dmitrijs2005/taskkeeper/internal/client/models"

// Session is the read side of the session store.
type Session interface {
	Loading() bool
	Token() string
}

type Outcome int

const (
	// Pending means session start-up has not finished; show a placeholder.
	Pending Outcome = iota
	// Redirect means the caller must navigate to Target.
	Redirect
	// Allow means the protected content may render.
	Allow
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Redirect:
		return "redirect"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

// Decision is the result of Check. Target and Replace are only set for
// Redirect.
type Decision struct {
	Outcome Outcome
	Target  models.View
	Replace bool
}

// Check is evaluated on every attempt to show a protected view. It does not
// look at the user's role.
func Check(s Session) Decision {
	switch {
	case s.Loading():
		return Decision{Outcome: Pending}
	case s.Token() == "":
		return Decision{Outcome: Redirect, Target: models.ViewSignIn, Replace: true}
	default:
		return Decision{Outcome: Allow}
	}
}
