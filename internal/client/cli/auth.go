package cli

import (
	"context"
	"fmt"

	"github.com/sermonmate/sermonmate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and a confirmed password and creates the
// account. On success the user is signed in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	if err := a.auth.Register(ctx, name, email, string(password), string(confirmation)); err != nil {
		return a.fail(err)
	}

	fmt.Fprintln(a.out, "Welcome,", name+"!")
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		return a.fail(err)
	}

	if st := a.auth.State(); st.User != nil {
		fmt.Fprintln(a.out, "Signed in as", st.User.Name)
	}
	return nil
}

// Logout always succeeds locally; server errors are only logged.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// WhoAmI refreshes the user from the server and prints the profile.
func (a *App) WhoAmI(ctx context.Context) error {
	if err := a.auth.LoadUser(ctx); err != nil {
		return a.fail(err)
	}
	st := a.auth.State()
	if st.User == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}

	u := st.User
	trial := "available"
	if u.FreeTrialUsed {
		trial = "used"
	}
	fmt.Fprintf(a.out, "%s <%s>\nrole: %s\ncredits: %d\nfree trial: %s\n", u.Name, u.Email, u.Role, u.Credits, trial)
	return nil
}
