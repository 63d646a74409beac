package models

import "time"

// UserStat is the per-user aggregate counter row. It is maintained
// transactionally alongside UserSkillStat: the skill rows for a user always
// sum to this row.
type UserStat struct {
	UserID        int64 `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	TotalCorrect  int   `gorm:"column:total_correct;not null;default:0" json:"total_correct"`
	TotalAttempts int   `gorm:"column:total_attempts;not null;default:0" json:"total_attempts"`
}

// UserSkillStat counts answers per (user, question type, domain, skill).
type UserSkillStat struct {
	UserID        int64  `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	QuestionType  string `gorm:"column:question_type;primaryKey" json:"question_type"`
	Domain        string `gorm:"column:domain;primaryKey" json:"domain"`
	Skill         string `gorm:"column:skill;primaryKey" json:"skill"`
	TotalCorrect  int    `gorm:"column:total_correct;not null;default:0" json:"total_correct"`
	TotalAttempts int    `gorm:"column:total_attempts;not null;default:0" json:"total_attempts"`
}

// QuestionAttempt records one user's answer to one broadcast question. The
// composite key guarantees at most one attempt per (user, question).
type QuestionAttempt struct {
	UserID     int64     `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	QuestionID uint      `gorm:"column:question_id;primaryKey;autoIncrement:false" json:"question_id"`
	Choice     string    `gorm:"column:choice;size:1;not null" json:"choice"`
	IsCorrect  bool      `gorm:"column:is_correct;not null" json:"is_correct"`
	AnsweredAt time.Time `gorm:"column:answered_at" json:"answered_at"`
}
