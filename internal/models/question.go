package models

import "time"

// Question is one multiple-choice SAT practice question. Column layout is
// shared with QuestionArchive so a row can move between the two tables
// without translation.
type Question struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Type          string `gorm:"column:type;size:10;not null" json:"type"`
	Text          string `gorm:"column:question;type:text;not null" json:"question"`
	CorrectAnswer string `gorm:"column:correct_answer;size:1;not null" json:"correct_answer"`
	OptionA       string `gorm:"column:option_a;type:text;not null" json:"option_a"`
	OptionB       string `gorm:"column:option_b;type:text;not null" json:"option_b"`
	OptionC       string `gorm:"column:option_c;type:text;not null" json:"option_c"`
	OptionD       string `gorm:"column:option_d;type:text;not null" json:"option_d"`
	Explanation   string `gorm:"column:explanation;type:text" json:"explanation"`
	Difficulty    string `gorm:"column:difficulty;size:10;check:difficulty IN ('easy','medium','hard')" json:"difficulty"`
	Domain        string `gorm:"column:domain" json:"domain"`
	Skill         string `gorm:"column:skill" json:"skill"`
	ImageURL      string `gorm:"column:image_url" json:"image_url,omitempty"`
}

const (
	TypeMath = "math"
	TypeEBRW = "ebrw"

	AnswerA = "A"
	AnswerB = "B"
	AnswerC = "C"
	AnswerD = "D"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Option returns the option text for a choice letter.
func (q *Question) Option(letter string) string {
	switch letter {
	case AnswerA:
		return q.OptionA
	case AnswerB:
		return q.OptionB
	case AnswerC:
		return q.OptionC
	case AnswerD:
		return q.OptionD
	}
	return ""
}

// QuestionArchive holds retired questions. The id is carried over from the
// questions table, never regenerated, so a question can be recovered under
// its original id.
type QuestionArchive struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Type          string    `gorm:"column:type;size:10;not null" json:"type"`
	Text          string    `gorm:"column:question;type:text;not null" json:"question"`
	CorrectAnswer string    `gorm:"column:correct_answer;size:1;not null" json:"correct_answer"`
	OptionA       string    `gorm:"column:option_a;type:text;not null" json:"option_a"`
	OptionB       string    `gorm:"column:option_b;type:text;not null" json:"option_b"`
	OptionC       string    `gorm:"column:option_c;type:text;not null" json:"option_c"`
	OptionD       string    `gorm:"column:option_d;type:text;not null" json:"option_d"`
	Explanation   string    `gorm:"column:explanation;type:text" json:"explanation"`
	Difficulty    string    `gorm:"column:difficulty;size:10;check:difficulty IN ('easy','medium','hard')" json:"difficulty"`
	Domain        string    `gorm:"column:domain" json:"domain"`
	Skill         string    `gorm:"column:skill" json:"skill"`
	ImageURL      string    `gorm:"column:image_url" json:"image_url,omitempty"`
	ArchivedAt    time.Time `gorm:"column:archived_at;not null;default:CURRENT_TIMESTAMP" json:"archived_at"`
}

func (QuestionArchive) TableName() string { return "question_archives" }

// ToQuestion strips the archive marker for recovery into the active table.
func (a *QuestionArchive) ToQuestion() Question {
	return Question{
		ID:            a.ID,
		Type:          a.Type,
		Text:          a.Text,
		CorrectAnswer: a.CorrectAnswer,
		OptionA:       a.OptionA,
		OptionB:       a.OptionB,
		OptionC:       a.OptionC,
		OptionD:       a.OptionD,
		Explanation:   a.Explanation,
		Difficulty:    a.Difficulty,
		Domain:        a.Domain,
		Skill:         a.Skill,
		ImageURL:      a.ImageURL,
	}
}

// ToArchive copies a question into its archived form.
func (q *Question) ToArchive() QuestionArchive {
	return QuestionArchive{
		ID:            q.ID,
		Type:          q.Type,
		Text:          q.Text,
		CorrectAnswer: q.CorrectAnswer,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		Explanation:   q.Explanation,
		Difficulty:    q.Difficulty,
		Domain:        q.Domain,
		Skill:         q.Skill,
		ImageURL:      q.ImageURL,
	}
}
