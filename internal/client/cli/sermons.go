package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sermonmate/sermonmate/internal/client/api"
	"github.com/sermonmate/sermonmate/internal/client/models"
)

// ListSermons prints one page when a page number is given, every sermon
// otherwise.
func (a *App) ListSermons(ctx context.Context, args []string) error {
	if len(args) > 0 {
		page, err := strconv.Atoi(args[0])
		if err != nil || page < 1 {
			printlnFn("Usage: sermons [page]")
			return fmt.Errorf("invalid page %q", args[0])
		}
		p, err := a.sermons.ListPage(ctx, page)
		if err != nil {
			return a.fail(err)
		}
		printSermons(a, p.Sermons)
		fmt.Fprintf(a.out, "page %d of %d (%d total)\n", p.CurrentPage, p.LastPage, p.Total)
		return nil
	}

	list, err := a.sermons.List(ctx)
	if err != nil {
		return a.fail(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No saved sermons yet")
		return nil
	}
	printSermons(a, list)
	return nil
}

func printSermons(a *App, list []models.SavedSermon) {
	for _, s := range list {
		fmt.Fprintf(a.out, "%6s  %s  [%s] %s\n", s.ID, s.Date, s.Color, s.Title)
	}
}

// readSermon prompts for every field; current values are kept when the user
// enters nothing.
func (a *App) readSermon(current models.SavedSermon) (models.SavedSermon, error) {
	keep := func(label, value string) string {
		if value == "" {
			return label
		}
		return fmt.Sprintf("%s [%s]", label, value)
	}

	title, err := getSimpleText(a.reader, keep("Title", current.Title), a.out)
	if err != nil {
		return current, err
	}
	if title != "" {
		current.Title = title
	}

	verses, err := GetLines(a.reader, "Verses, one per line", a.out)
	if err != nil {
		return current, err
	}
	if len(verses) > 0 {
		current.Verses = verses
	}

	interpretation, err := GetMultiline(a.reader, "Interpretation", a.out)
	if err != nil {
		return current, err
	}
	if interpretation != "" {
		current.Interpretation = interpretation
	}

	story, err := GetMultiline(a.reader, "Story", a.out)
	if err != nil {
		return current, err
	}
	if story != "" {
		current.Story = story
	}

	color, err := getSimpleText(a.reader, keep("Color tag", current.Color), a.out)
	if err != nil {
		return current, err
	}
	if color != "" {
		current.Color = color
	}
	return current, nil
}

// NewSermon saves a sermon on the server. When the server is unreachable
// the sermon is kept as a draft instead.
func (a *App) NewSermon(ctx context.Context) error {
	topic, err := getSimpleText(a.reader, "Topic (optional)", a.out)
	if err != nil {
		return err
	}
	topic = strings.TrimSpace(topic)
	s, err := a.readSermon(models.SavedSermon{})
	if err != nil {
		return err
	}

	saved, err := a.sermons.Save(ctx, models.NewSermon{
		Title:          s.Title,
		Verses:         s.Verses,
		Interpretation: s.Interpretation,
		Story:          s.Story,
		Color:          s.Color,
		Topic:          topic,
	})
	if err != nil {
		if errors.Is(err, api.ErrUnavailable) {
			d, derr := a.sermons.SaveDraft(ctx, topic, s)
			if derr == nil {
				fmt.Fprintln(a.out, api.NetworkErrorMessage)
				fmt.Fprintln(a.out, "Kept as draft", d.ID)
				return err
			}
		}
		return a.fail(err)
	}

	fmt.Fprintln(a.out, "Saved sermon", saved.ID)
	return nil
}

func (a *App) EditSermon(ctx context.Context, args []string) error {
	id, ok := argOrUsage(args, "edit <id>")
	if !ok {
		return nil
	}

	list, err := a.sermons.List(ctx)
	if err != nil {
		return a.fail(err)
	}
	var current *models.SavedSermon
	for i := range list {
		if list[i].ID == id {
			current = &list[i]
			break
		}
	}
	if current == nil {
		fmt.Fprintln(a.out, "No sermon with id", id)
		return fmt.Errorf("sermon %s not found", id)
	}

	edited, err := a.readSermon(*current)
	if err != nil {
		return err
	}
	updated, err := a.sermons.Update(ctx, edited)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintln(a.out, "Updated sermon", updated.ID)
	return nil
}

func (a *App) DeleteSermon(ctx context.Context, args []string) error {
	id, ok := argOrUsage(args, "delete <id>")
	if !ok {
		return nil
	}
	if !Confirm(a.reader, "Delete sermon "+id+"?", a.out) {
		return nil
	}
	if err := a.sermons.Delete(ctx, id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Deleted sermon", id)
	return nil
}
