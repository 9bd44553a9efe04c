package cli

import (
	"context"
	"fmt"

	"github.com/sermonmate/sermonmate/internal/client/models"
)

// Theme prints the current theme, or switches it: "theme dark",
// "theme light", "theme toggle".
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Theme:", a.theme.Theme())
		return nil
	}

	var err error
	switch args[0] {
	case "toggle":
		_, err = a.theme.Toggle(ctx)
	default:
		err = a.theme.SetTheme(ctx, models.Theme(args[0]))
	}
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Theme:", a.theme.Theme())
	return nil
}
