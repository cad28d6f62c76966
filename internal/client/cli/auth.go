package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// getSimpleText, getMultiline and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
)

func (a *App) credentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	pw, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", "", err
	}
	defer clear(pw)
	return email, string(pw), nil
}

// Register prompts for an email and a password and creates an account. On
// success the user stays on the sign-in screen and is asked to log in.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	if err := a.session.Register(ctx, email, password); err != nil {
		printErr(err)
		return err
	}

	printlnFn("Registered. You can now login.")
	return nil
}

// Login prompts for credentials and signs in. The session store moves the
// app to the dashboard on success.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	if _, err := a.session.SignIn(ctx, email, password); err != nil {
		printErr(err)
		return err
	}

	if u := a.session.User(); u != nil {
		printlnFn(fmt.Sprintf("Signed in as %s", u.Email))
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.slot.Dismiss()
	a.session.SignOut(ctx)
	printlnFn("Signed out")
	return nil
}

// WhoAmI refetches and prints the current user.
func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.session.FetchUser(ctx)
	if err != nil {
		printErr(err)
		return err
	}
	if u == nil {
		printlnFn("Not signed in")
		return nil
	}
	role := string(u.Role)
	if role == "" {
		role = string(models.RoleUser)
	}
	printlnFn(fmt.Sprintf("%s (%s)", u.Email, role))

	at, ok, err := a.tokens.SavedAt(ctx)
	if err != nil {
		a.logger.Warn(ctx, "read session age", "error", err)
	} else if ok {
		printlnFn("Signed in " + humanize.Time(at))
	}
	return nil
}
