// Package wizard implements the multi-step question entry flow: a fixed
// sequence of selections and free-text submissions that assembles one
// question and persists it. Session state is a Draft value threaded through
// the step functions; nothing is shared or mutated across steps.
package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adiar1/Crackd/internal/models"
	"github.com/Adiar1/Crackd/internal/pages"
	"github.com/Adiar1/Crackd/internal/services"
	"github.com/Adiar1/Crackd/internal/surface"
	"github.com/Adiar1/Crackd/internal/taxonomy"
)

type Wizard struct {
	surf      surface.Surface
	questions *services.QuestionService
}

func New(surf surface.Surface, questions *services.QuestionService) *Wizard {
	return &Wizard{surf: surf, questions: questions}
}

// Draft is the partially-built question. Each step receives the draft so
// far and returns an extended copy; the choice set at every step derives
// from values recorded by earlier steps.
type Draft struct {
	Type          string
	Text          string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	Domain        string
	Explanation   string
	ImageURL      string
	CorrectAnswer string
	Skill         string
	Difficulty    string
}

func (d Draft) option(letter string) string {
	switch letter {
	case "A":
		return d.OptionA
	case "B":
		return d.OptionB
	case "C":
		return d.OptionC
	case "D":
		return d.OptionD
	}
	return ""
}

func (d Draft) choicesBlock() string {
	return fmt.Sprintf("A) %s\nB) %s\nC) %s\nD) %s", d.OptionA, d.OptionB, d.OptionC, d.OptionD)
}

// Run walks the full flow. Abandonment surfaces as a context error; store
// failures are reported to the user and terminate the session with nothing
// persisted.
func (w *Wizard) Run(ctx context.Context) error {
	steps := []func(context.Context, Draft) (Draft, error){
		w.chooseType,
		w.collectCore,
		w.chooseDomain,
		w.collectExplanation,
		w.chooseCorrectAnswer,
		w.chooseSkill,
		w.chooseDifficulty,
	}

	var d Draft
	var err error
	for _, step := range steps {
		if d, err = step(ctx, d); err != nil {
			return err
		}
	}
	return w.persist(ctx, d)
}

func (w *Wizard) chooseType(ctx context.Context, d Draft) (Draft, error) {
	b := pages.NewBuilder("Add a New SAT Question")
	b.SetDescription("Select the type of question you'd like to add.")
	b.AddField("EBRW", "Evidence-Based Reading and Writing")
	b.AddField("Math", "Math questions for SAT preparation")

	values, err := w.surf.ShowChoices(ctx, b.Pages()[0], []surface.Choice{
		{Label: "EBRW", Value: models.TypeEBRW},
		{Label: "Math", Value: models.TypeMath},
	}, 1)
	if err != nil {
		return d, err
	}
	d.Type = values[0]
	return d, nil
}

func (w *Wizard) collectCore(ctx context.Context, d Draft) (Draft, error) {
	fields, err := w.surf.CollectFreeText(ctx, []surface.FieldSpec{
		{Key: "question", Label: "Enter the question", Placeholder: "Type the SAT question here...", MaxLen: 2000},
		{Key: "choice_a", Label: "Enter answer choice A", Placeholder: "Type the text for choice A...", MaxLen: 250},
		{Key: "choice_b", Label: "Enter answer choice B", Placeholder: "Type the text for choice B...", MaxLen: 250},
		{Key: "choice_c", Label: "Enter answer choice C", Placeholder: "Type the text for choice C...", MaxLen: 250},
		{Key: "choice_d", Label: "Enter answer choice D", Placeholder: "Type the text for choice D...", MaxLen: 250},
	})
	if err != nil {
		return d, err
	}
	d.Text = fields["question"]
	d.OptionA = fields["choice_a"]
	d.OptionB = fields["choice_b"]
	d.OptionC = fields["choice_c"]
	d.OptionD = fields["choice_d"]
	return d, nil
}

func (w *Wizard) chooseDomain(ctx context.Context, d Draft) (Draft, error) {
	b := pages.NewBuilder("Select Domain")
	b.SetDescription(fmt.Sprintf(
		"Please select the domain for this question:\n\n<b>Question:</b> %s\n\n<b>Answer Choices:</b>\n%s",
		d.Text, d.choicesBlock(),
	))

	var choices []surface.Choice
	for _, domain := range taxonomy.Domains(d.Type) {
		choices = append(choices, surface.Choice{Label: domain, Value: domain})
	}

	values, err := w.surf.ShowChoices(ctx, b.Pages()[0], choices, 1)
	if err != nil {
		return d, err
	}
	d.Domain = values[0]
	return d, nil
}

func (w *Wizard) collectExplanation(ctx context.Context, d Draft) (Draft, error) {
	fields, err := w.surf.CollectFreeText(ctx, []surface.FieldSpec{
		{Key: "explanation", Label: "Enter explanation", Placeholder: "Explain the solution to this question...", MaxLen: 2000},
		{Key: "image_url", Label: "Optional Image URL", Placeholder: "Enter a link to an image (if applicable)...", Optional: true, MaxLen: 500},
	})
	if err != nil {
		return d, err
	}
	d.Explanation = fields["explanation"]
	d.ImageURL = fields["image_url"]

	// A suspicious URL only produces a warning. The question is stored
	// either way and the flow continues.
	if d.ImageURL != "" && !looksLikeImageURL(d.ImageURL) {
		w.surf.Notify(ctx, "⚠️ Warning: The image URL provided might not work correctly. "+
			"The question will still be saved, but please verify the image URL.")
	}
	return d, nil
}

func (w *Wizard) chooseCorrectAnswer(ctx context.Context, d Draft) (Draft, error) {
	b := pages.NewBuilder("Select the Correct Answer")
	b.SetDescription(fmt.Sprintf(
		"Choose the correct answer for this question:\n\n<b>Question:</b> %s\n\n<b>Answer Choices:</b>\n%s",
		d.Text, d.choicesBlock(),
	))

	var choices []surface.Choice
	for _, letter := range []string{"A", "B", "C", "D"} {
		choices = append(choices, surface.Choice{
			Label: fmt.Sprintf("%s) %s", letter, d.option(letter)),
			Value: letter,
		})
	}

	values, err := w.surf.ShowChoices(ctx, b.Pages()[0], choices, 1)
	if err != nil {
		return d, err
	}
	d.CorrectAnswer = values[0]
	return d, nil
}

func (w *Wizard) chooseSkill(ctx context.Context, d Draft) (Draft, error) {
	b := pages.NewBuilder("Select Skill")
	b.SetDescription(fmt.Sprintf("Please select the specific skill under domain <b>%s</b>", d.Domain))

	var choices []surface.Choice
	for _, skill := range taxonomy.Skills(d.Type, d.Domain) {
		choices = append(choices, surface.Choice{Label: skill, Value: skill})
	}

	values, err := w.surf.ShowChoices(ctx, b.Pages()[0], choices, 1)
	if err != nil {
		return d, err
	}
	d.Skill = values[0]
	return d, nil
}

func (w *Wizard) chooseDifficulty(ctx context.Context, d Draft) (Draft, error) {
	b := pages.NewBuilder("Select Difficulty")
	b.SetDescription("Please select the difficulty level for this question.")

	values, err := w.surf.ShowChoices(ctx, b.Pages()[0], []surface.Choice{
		{Label: "Easy", Value: models.DifficultyEasy},
		{Label: "Medium", Value: models.DifficultyMedium},
		{Label: "Hard", Value: models.DifficultyHard},
	}, 1)
	if err != nil {
		return d, err
	}
	d.Difficulty = values[0]
	return d, nil
}

// persist writes the assembled question and renders the confirmation pages.
// A store failure is terminal: the user sees a truncated error page and has
// to restart the flow.
func (w *Wizard) persist(ctx context.Context, d Draft) error {
	q := models.Question{
		Type:          d.Type,
		Text:          d.Text,
		CorrectAnswer: d.CorrectAnswer,
		OptionA:       d.OptionA,
		OptionB:       d.OptionB,
		OptionC:       d.OptionC,
		OptionD:       d.OptionD,
		Explanation:   d.Explanation,
		Difficulty:    d.Difficulty,
		Domain:        d.Domain,
		Skill:         d.Skill,
		ImageURL:      d.ImageURL,
	}

	id, err := w.questions.Create(&q)
	if err != nil {
		eb := pages.NewBuilder("Error Adding Question")
		eb.SetDescription(truncateError(err))
		w.surf.RenderPage(ctx, eb.Pages()[0])
		return err
	}

	return w.confirm(ctx, id, d)
}

func (w *Wizard) confirm(ctx context.Context, id uint, d Draft) error {
	b := pages.NewBuilder(fmt.Sprintf("Question ID %d Added Successfully", id))

	typeName := "EBRW"
	if d.Type == models.TypeMath {
		typeName = "Math"
	}
	b.AddField("Type", typeName)
	b.AddField("Domain", d.Domain)
	b.AddField("Skill", d.Skill)
	b.AddField("Difficulty", pages.Capitalize(d.Difficulty))

	// A long question gets a page to itself.
	if len(d.Text) > 1000 {
		b.Seal()
	}
	b.AddField("Question", d.Text)

	if b.WouldOverflow(1000) {
		b.Seal()
	}
	b.AddField("Answer Choices", d.choicesBlock())
	b.AddField("Correct Answer", fmt.Sprintf("%s) %s", d.CorrectAnswer, d.option(d.CorrectAnswer)))

	if len(d.Explanation) > 1000 {
		b.Seal()
	}
	b.AddField("Explanation", d.Explanation)

	// The image rides on the final page unless the page is nearly full,
	// in which case it moves to a fresh one.
	if d.ImageURL != "" {
		if b.WouldOverflow(100) {
			b.Seal()
		}
		b.SetImage(d.ImageURL)
	}

	return w.surf.RenderPager(ctx, b.Pages())
}

func truncateError(err error) string {
	msg := fmt.Sprintf("An error occurred: %s", err)
	if len(msg) > pages.MaxDescription {
		msg = msg[:pages.MaxDescription]
	}
	return msg
}

func looksLikeImageURL(url string) bool {
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp", ".ico"} {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	if strings.Contains(lower, "?") {
		return true
	}
	for _, marker := range []string{"/image", "/img", "/photo", "/picture", "/static/", "/media/"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
