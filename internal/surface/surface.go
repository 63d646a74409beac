// Package surface defines the interactive UI capability consumed by the
// wizard, archive, and daily flows. An implementation is scoped to one
// chat and one initiating user: the scope is the only response
// authorization it performs.
package surface

import (
	"context"
	"errors"

	"github.com/Adiar1/Crackd/internal/pages"
)

// ErrCancelled is returned when the user backs out of a prompt.
var ErrCancelled = errors.New("surface: prompt cancelled")

// Choice is one selectable option: Label is shown, Value comes back.
type Choice struct {
	Label string
	Value string
}

// FieldSpec describes one free-text input to collect.
type FieldSpec struct {
	Key         string
	Label       string
	Placeholder string
	Optional    bool
	MaxLen      int
}

// MessageRef identifies a rendered page so it can be edited later.
type MessageRef struct {
	ChatID    int64
	MessageID int64
}

// Surface is the interactive UI consumed by the core flows. ShowChoices and
// CollectFreeText suspend until the initiating user responds or ctx expires;
// they never accept input from anyone else.
type Surface interface {
	// ShowChoices offers up to 25 options and returns the chosen values.
	// With maxSelectable == 1 the first selection resolves the prompt;
	// otherwise selections toggle until a terminal action fires.
	ShowChoices(ctx context.Context, p pages.Page, choices []Choice, maxSelectable int) ([]string, error)

	// ShowActionChoices is the multi-select variant with several terminal
	// actions; it returns the action taken along with the selected values.
	// Actions other than "cancel" require at least one selection, while
	// "cancel" fires even when nothing is selected.
	ShowActionChoices(ctx context.Context, p pages.Page, choices []Choice, actions []Choice) (string, []string, error)

	// RenderPage displays one page and returns a handle for later edits.
	RenderPage(ctx context.Context, p pages.Page) (MessageRef, error)

	// EditPage replaces the content of an already-rendered page.
	EditPage(ctx context.Context, ref MessageRef, p pages.Page) error

	// RenderPager displays a page sequence with prev/next navigation.
	RenderPager(ctx context.Context, ps []pages.Page) error

	// CollectFreeText gathers the requested fields from the user and
	// returns them keyed by FieldSpec.Key.
	CollectFreeText(ctx context.Context, fields []FieldSpec) (map[string]string, error)

	// Notify shows a transient note that is not part of any page.
	Notify(ctx context.Context, text string) error
}
