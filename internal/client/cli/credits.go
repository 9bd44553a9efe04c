package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

func (a *App) Packages(ctx context.Context) error {
	pkgs, err := a.credits.FetchPackages(ctx)
	if err != nil {
		return a.fail(err)
	}
	for _, p := range pkgs {
		if !p.IsActive {
			continue
		}
		fmt.Fprintf(a.out, "%3d  %-12s %3d AI conversation sessions  %s\n", p.ID, p.Name, p.SessionsCount, formatPrice(p.PriceUSD))
	}
	return nil
}

// formatPrice renders a price given in cents.
func formatPrice(cents float64) string {
	return fmt.Sprintf("$%.2f", cents/100)
}

func (a *App) Buy(ctx context.Context, args []string) error {
	raw, ok := argOrUsage(args, "buy <package>")
	if !ok {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		printlnFn("Usage: buy <package>")
		return err
	}

	p, err := a.credits.Purchase(ctx, id)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintln(a.out, "Payment initialized for", p.Package.Name)
	if url := gjson.GetBytes(p.Intent.Payload, "authorization_url").String(); url != "" {
		fmt.Fprintln(a.out, "Complete the payment at", url)
	}
	if p.Simulated {
		fmt.Fprintf(a.out, "Balance (pending confirmation): %d credits\n", p.CreditsAfter)
	}
	return nil
}
