package cli

import (
	"context"
	"fmt"
	"time"
)

func (a *App) Drafts(ctx context.Context) error {
	list, err := a.sermons.Drafts(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No drafts")
		return nil
	}
	for _, d := range list {
		edited := time.Unix(0, d.UpdatedAt).Format("2006-01-02 15:04")
		fmt.Fprintf(a.out, "%s  %s  %s\n", d.ID, edited, d.Sermon.Title)
	}
	return nil
}

func (a *App) PublishDraft(ctx context.Context, args []string) error {
	id, ok := argOrUsage(args, "publish <draft>")
	if !ok {
		return nil
	}
	saved, err := a.sermons.PublishDraft(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Saved sermon", saved.ID)
	return nil
}

func (a *App) DiscardDraft(ctx context.Context, args []string) error {
	id, ok := argOrUsage(args, "discard <draft>")
	if !ok {
		return nil
	}
	if err := a.sermons.DeleteDraft(ctx, id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Discarded draft", id)
	return nil
}
