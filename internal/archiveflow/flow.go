// Package archiveflow implements the question review flows: browsing active
// questions and archiving a selection, and browsing the archive to recover
// or permanently delete entries.
package archiveflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Adiar1/Crackd/internal/models"
	"github.com/Adiar1/Crackd/internal/pages"
	"github.com/Adiar1/Crackd/internal/services"
	"github.com/Adiar1/Crackd/internal/surface"
)

// A selection prompt offers at most this many candidates at once.
const maxCandidates = 25

type Flow struct {
	surf      surface.Surface
	questions *services.QuestionService
	archive   *services.ArchiveService
}

func New(surf surface.Surface, questions *services.QuestionService, archive *services.ArchiveService) *Flow {
	return &Flow{surf: surf, questions: questions, archive: archive}
}

// RunActive lists active questions of a chosen type and offers to archive a
// selection. Archiving is per id: the result page reports which ids moved
// and which were refused.
func (f *Flow) RunActive(ctx context.Context) error {
	qtype, err := f.chooseType(ctx)
	if err != nil {
		return err
	}

	qs, err := f.questions.List(qtype)
	if err != nil {
		return err
	}
	if len(qs) == 0 {
		return f.surf.Notify(ctx, fmt.Sprintf("No %s questions found.", typeName(qtype)))
	}

	blocks := make([]pages.Block, len(qs))
	choices := make([]surface.Choice, len(qs))
	for i := range qs {
		blocks[i] = pages.FormatQuestion(&qs[i])
		choices[i] = questionChoice(qs[i].ID, qs[i].Text)
	}

	if err := f.surf.RenderPager(ctx, pages.BuildList(blocks, fmt.Sprintf("Active %s Questions", typeName(qtype)))); err != nil {
		return err
	}

	b := pages.NewBuilder("Archive Questions")
	desc := "Select the questions you want to archive, then press <b>Archive Selected</b>."
	if len(choices) > maxCandidates {
		choices = choices[:maxCandidates]
		desc += fmt.Sprintf("\nOnly the first %d questions are selectable here.", maxCandidates)
	}
	b.SetDescription(desc)
	action, values, err := f.surf.ShowActionChoices(ctx, b.Pages()[0], choices, []surface.Choice{
		{Label: "Archive Selected", Value: "archive"},
		{Label: "Cancel", Value: "cancel"},
	})
	if err != nil {
		return err
	}
	if action == "cancel" {
		return f.surf.Notify(ctx, "Archiving cancelled.")
	}

	res := f.archive.Archive(parseIDs(values))
	return f.renderArchiveResult(ctx, res)
}

// RunArchives lists the archive and offers recovery or permanent deletion.
// Both act on the whole selection in one transaction; deletion additionally
// requires an explicit confirmation step.
func (f *Flow) RunArchives(ctx context.Context) error {
	archived, err := f.questions.ListArchived()
	if err != nil {
		return err
	}
	if len(archived) == 0 {
		return f.surf.Notify(ctx, "No archived questions found.")
	}

	blocks := make([]pages.Block, len(archived))
	choices := make([]surface.Choice, len(archived))
	for i := range archived {
		blocks[i] = pages.FormatArchived(&archived[i])
		choices[i] = questionChoice(archived[i].ID, archived[i].Text)
	}

	if err := f.surf.RenderPager(ctx, pages.BuildList(blocks, "Archived Questions")); err != nil {
		return err
	}

	b := pages.NewBuilder("Manage Archived Questions")
	desc := "Select archived questions, then choose <b>Recover</b> to restore them or <b>Delete</b> to remove them permanently."
	if len(choices) > maxCandidates {
		choices = choices[:maxCandidates]
		desc += fmt.Sprintf("\nOnly the first %d entries are selectable here.", maxCandidates)
	}
	b.SetDescription(desc)
	action, values, err := f.surf.ShowActionChoices(ctx, b.Pages()[0], choices, []surface.Choice{
		{Label: "Recover", Value: "recover"},
		{Label: "Delete", Value: "delete"},
		{Label: "Cancel", Value: "cancel"},
	})
	if err != nil {
		return err
	}

	ids := parseIDs(values)
	switch action {
	case "recover":
		return f.recover(ctx, ids)
	case "delete":
		return f.delete(ctx, ids)
	default:
		return f.surf.Notify(ctx, "No changes made.")
	}
}

func (f *Flow) recover(ctx context.Context, ids []uint) error {
	recovered, err := f.archive.Recover(ids)
	if err != nil {
		return f.renderError(ctx, "Recovery Failed", err)
	}

	b := pages.NewBuilder("Recovery Complete")
	if len(recovered) == 0 {
		b.SetDescription("None of the selected questions were found in the archive.")
	} else {
		b.SetDescription(fmt.Sprintf("Recovered question(s) %s back to the active set.", joinIDs(recovered)))
	}
	_, err = f.surf.RenderPage(ctx, b.Pages()[0])
	return err
}

func (f *Flow) delete(ctx context.Context, ids []uint) error {
	b := pages.NewBuilder("Confirm Permanent Deletion")
	b.SetDescription(fmt.Sprintf(
		"⚠️ You are about to permanently delete question(s) %s.\nThis cannot be undone. Proceed?", joinIDs(ids),
	))
	values, err := f.surf.ShowChoices(ctx, b.Pages()[0], []surface.Choice{
		{Label: "Yes, delete permanently", Value: "yes"},
		{Label: "Cancel", Value: "cancel"},
	}, 1)
	if err != nil {
		return err
	}
	if values[0] != "yes" {
		return f.surf.Notify(ctx, "Deletion cancelled.")
	}

	deleted, err := f.archive.Delete(ids)
	if err != nil {
		return f.renderError(ctx, "Deletion Failed", err)
	}

	rb := pages.NewBuilder("Deletion Complete")
	rb.SetDescription(fmt.Sprintf("Permanently deleted question(s) %s.", joinIDs(deleted)))
	_, err = f.surf.RenderPage(ctx, rb.Pages()[0])
	return err
}

func (f *Flow) renderArchiveResult(ctx context.Context, res services.ArchiveResult) error {
	b := pages.NewBuilder("Archive Results")
	if len(res.Archived) > 0 {
		b.AddField("Archived", joinIDs(res.Archived))
	}
	if len(res.Failed) > 0 {
		b.AddField("Failed", fmt.Sprintf("%s (already archived or not found)", joinIDs(res.Failed)))
	}
	if len(res.Archived) == 0 && len(res.Failed) == 0 {
		b.SetDescription("Nothing was selected.")
	}
	_, err := f.surf.RenderPage(ctx, b.Pages()[0])
	return err
}

func (f *Flow) renderError(ctx context.Context, title string, err error) error {
	b := pages.NewBuilder(title)
	msg := fmt.Sprintf("An error occurred: %s", err)
	if len(msg) > pages.MaxDescription {
		msg = msg[:pages.MaxDescription]
	}
	b.SetDescription(msg)
	if _, rerr := f.surf.RenderPage(ctx, b.Pages()[0]); rerr != nil {
		return rerr
	}
	return err
}

func (f *Flow) chooseType(ctx context.Context) (string, error) {
	b := pages.NewBuilder("View Questions")
	b.SetDescription("Which question type would you like to review?")
	values, err := f.surf.ShowChoices(ctx, b.Pages()[0], []surface.Choice{
		{Label: "EBRW", Value: models.TypeEBRW},
		{Label: "Math", Value: models.TypeMath},
	}, 1)
	if err != nil {
		return "", err
	}
	return values[0], nil
}

func questionChoice(id uint, text string) surface.Choice {
	return surface.Choice{
		Label: fmt.Sprintf("ID %d: %s", id, text),
		Value: strconv.FormatUint(uint64(id), 10),
	}
}

func typeName(qtype string) string {
	if qtype == models.TypeMath {
		return "Math"
	}
	return "EBRW"
}

func parseIDs(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}
