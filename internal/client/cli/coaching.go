package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) Topics(ctx context.Context) error {
	for _, t := range a.coaching.Topics() {
		fmt.Fprintf(a.out, "%d  %-12s %s\n", t.ID, t.Title, t.Description)
	}
	if id := a.coaching.AgentID(); id != "" {
		fmt.Fprintln(a.out, "Voice agent:", id)
	}
	return nil
}

// Session shows the summary of a finished voice conversation and, if the
// user agrees, records it (which deducts a credit server-side).
func (a *App) Session(ctx context.Context, args []string) error {
	id, ok := argOrUsage(args, "session <conversation>")
	if !ok {
		return nil
	}

	c, err := a.coaching.Conversation(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	if !c.Done() {
		fmt.Fprintln(a.out, "Conversation is still being processed, try again shortly")
		return nil
	}

	fmt.Fprintln(a.out, c.Analysis.CallSummaryTitle)
	fmt.Fprintln(a.out, strings.TrimSpace(c.Analysis.TranscriptSummary))
	fmt.Fprintf(a.out, "%d seconds\n", c.Metadata.CallDurationSecs)
	for _, line := range c.Transcript {
		fmt.Fprintf(a.out, "%s: %s\n", line.Role, line.Message)
	}

	if !Confirm(a.reader, "Save this session?", a.out) {
		return nil
	}
	sessionID, err := a.coaching.RecordSession(ctx, *c)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Session saved", sessionID)
	return nil
}
