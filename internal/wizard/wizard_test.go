package wizard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Adiar1/Crackd/internal/models"
	"github.com/Adiar1/Crackd/internal/pages"
	"github.com/Adiar1/Crackd/internal/services"
	"github.com/Adiar1/Crackd/internal/surface"
)

// fakeSurface replays scripted responses and records everything rendered.
type fakeSurface struct {
	t *testing.T

	choiceReplies []string
	textReplies   []map[string]string

	offered  [][]surface.Choice
	rendered []pages.Page
	pagers   [][]pages.Page
	notices  []string
}

func (f *fakeSurface) ShowChoices(_ context.Context, _ pages.Page, choices []surface.Choice, _ int) ([]string, error) {
	if len(f.choiceReplies) == 0 {
		f.t.Fatal("unexpected ShowChoices call")
	}
	f.offered = append(f.offered, choices)
	reply := f.choiceReplies[0]
	f.choiceReplies = f.choiceReplies[1:]
	return []string{reply}, nil
}

func (f *fakeSurface) ShowActionChoices(_ context.Context, _ pages.Page, _ []surface.Choice, _ []surface.Choice) (string, []string, error) {
	f.t.Fatal("unexpected ShowActionChoices call")
	return "", nil, nil
}

func (f *fakeSurface) RenderPage(_ context.Context, p pages.Page) (surface.MessageRef, error) {
	f.rendered = append(f.rendered, p)
	return surface.MessageRef{}, nil
}

func (f *fakeSurface) EditPage(context.Context, surface.MessageRef, pages.Page) error { return nil }

func (f *fakeSurface) RenderPager(_ context.Context, ps []pages.Page) error {
	f.pagers = append(f.pagers, ps)
	return nil
}

func (f *fakeSurface) CollectFreeText(_ context.Context, fields []surface.FieldSpec) (map[string]string, error) {
	if len(f.textReplies) == 0 {
		f.t.Fatal("unexpected CollectFreeText call")
	}
	reply := f.textReplies[0]
	f.textReplies = f.textReplies[1:]

	out := make(map[string]string, len(fields))
	for _, spec := range fields {
		out[spec.Key] = reply[spec.Key]
	}
	return out, nil
}

func (f *fakeSurface) Notify(_ context.Context, text string) error {
	f.notices = append(f.notices, text)
	return nil
}

func newWizardDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Question{}))
	return db
}

func TestWizardFullRun(t *testing.T) {
	db := newWizardDB(t)
	svc := services.NewQuestionService(db)

	surf := &fakeSurface{
		t: t,
		choiceReplies: []string{
			models.TypeMath,
			"Algebra",
			"B",
			"Linear functions",
			models.DifficultyMedium,
		},
		textReplies: []map[string]string{
			{
				"question": "If f(x) = 3x + 1, what is f(2)?",
				"choice_a": "5",
				"choice_b": "7",
				"choice_c": "6",
				"choice_d": "9",
			},
			{
				"explanation": "Substitute x = 2 into the function.",
				"image_url":   "",
			},
		},
	}

	require.NoError(t, New(surf, svc).Run(context.Background()))

	qs, err := svc.List("")
	require.NoError(t, err)
	require.Len(t, qs, 1)

	q := qs[0]
	assert.Equal(t, models.TypeMath, q.Type)
	assert.Equal(t, "If f(x) = 3x + 1, what is f(2)?", q.Text)
	assert.Equal(t, "B", q.CorrectAnswer)
	assert.Equal(t, "7", q.OptionB)
	assert.Equal(t, "Algebra", q.Domain)
	assert.Equal(t, "Linear functions", q.Skill)
	assert.Equal(t, models.DifficultyMedium, q.Difficulty)

	// domain choices were built from the math taxonomy
	require.GreaterOrEqual(t, len(surf.offered), 2)
	assert.Equal(t, "Algebra", surf.offered[1][0].Value)

	require.Len(t, surf.pagers, 1)
	confirm := surf.pagers[0]
	require.Len(t, confirm, 1)
	assert.Contains(t, confirm[0].Title, "Added Successfully")

	byName := map[string]string{}
	for _, f := range confirm[0].Fields {
		byName[f.Name] = f.Value
	}
	assert.Equal(t, "Math", byName["Type"])
	assert.Equal(t, "Medium", byName["Difficulty"])
	assert.Equal(t, "B) 7", byName["Correct Answer"])
	assert.Contains(t, byName["Answer Choices"], "A) 5")
	assert.Empty(t, surf.notices)
}

func TestWizardWarnsOnSuspiciousImageURL(t *testing.T) {
	db := newWizardDB(t)
	svc := services.NewQuestionService(db)

	surf := &fakeSurface{
		t: t,
		choiceReplies: []string{
			models.TypeEBRW,
			"Craft and Structure",
			"A",
			"Words in Context",
			models.DifficultyHard,
		},
		textReplies: []map[string]string{
			{
				"question": "As used in the text, what does \"tempered\" most nearly mean?",
				"choice_a": "moderated",
				"choice_b": "heated",
				"choice_c": "angered",
				"choice_d": "hardened",
			},
			{
				"explanation": "The surrounding clause signals restraint.",
				"image_url":   "ftp://example.com/passage",
			},
		},
	}

	require.NoError(t, New(surf, svc).Run(context.Background()))

	require.Len(t, surf.notices, 1)
	assert.Contains(t, surf.notices[0], "might not work")

	// the question is stored despite the warning, url included
	qs, err := svc.List("")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "ftp://example.com/passage", qs[0].ImageURL)
}

func TestWizardLongContentSplitsConfirmation(t *testing.T) {
	db := newWizardDB(t)
	svc := services.NewQuestionService(db)

	longQuestion := ""
	for i := 0; i < 60; i++ {
		longQuestion += "A very long passage sentence. "
	}

	surf := &fakeSurface{
		t: t,
		choiceReplies: []string{
			models.TypeEBRW,
			"Information and Ideas",
			"C",
			"Inferences",
			models.DifficultyEasy,
		},
		textReplies: []map[string]string{
			{
				"question": longQuestion,
				"choice_a": "first",
				"choice_b": "second",
				"choice_c": "third",
				"choice_d": "fourth",
			},
			{
				"explanation": "Short explanation.",
				"image_url":   "https://example.com/passage.png",
			},
		},
	}

	require.NoError(t, New(surf, svc).Run(context.Background()))

	require.Len(t, surf.pagers, 1)
	confirm := surf.pagers[0]
	require.GreaterOrEqual(t, len(confirm), 2)

	// the long question starts its own page, after the metadata page
	assert.Equal(t, "Type", confirm[0].Fields[0].Name)
	assert.Equal(t, "Question", confirm[1].Fields[0].Name)

	// the image landed on exactly one page
	withImage := 0
	for _, p := range confirm {
		if p.ImageURL != "" {
			withImage++
		}
	}
	assert.Equal(t, 1, withImage)
}

func TestLooksLikeImageURL(t *testing.T) {
	assert.True(t, looksLikeImageURL("https://example.com/graph.png"))
	assert.True(t, looksLikeImageURL("https://cdn.example.com/render?id=42"))
	assert.True(t, looksLikeImageURL("http://example.com/media/123"))
	assert.False(t, looksLikeImageURL("ftp://example.com/a.png"))
	assert.False(t, looksLikeImageURL("https://example.com/page"))
}
