package services

import (
	"errors"
	"math/rand"

	"github.com/Adiar1/Crackd/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound marks a missing record. Callers render it as a "nothing to
// show" response rather than a fault.
var ErrNotFound = errors.New("not found")

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// Create inserts a new question and returns the store-assigned id.
func (s *QuestionService) Create(q *models.Question) (uint, error) {
	if err := s.db.Create(q).Error; err != nil {
		return 0, err
	}
	return q.ID, nil
}

func (s *QuestionService) Get(id uint) (*models.Question, error) {
	var q models.Question
	if err := s.db.First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// List returns all active questions, optionally filtered by type.
func (s *QuestionService) List(questionType string) ([]models.Question, error) {
	var qs []models.Question
	query := s.db.Order("id ASC")
	if questionType != "" {
		query = query.Where("type = ?", questionType)
	}
	if err := query.Find(&qs).Error; err != nil {
		return nil, err
	}
	return qs, nil
}

// Random picks a random question, optionally restricted to a type. When id
// is non-zero the specific question is fetched instead (the type filter
// still applies).
func (s *QuestionService) Random(questionType string, id uint) (*models.Question, error) {
	if id != 0 {
		var q models.Question
		query := s.db.Where("id = ?", id)
		if questionType != "" {
			query = query.Where("type = ?", questionType)
		}
		if err := query.First(&q).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &q, nil
	}

	qs, err := s.List(questionType)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, ErrNotFound
	}
	return &qs[rand.Intn(len(qs))], nil
}

// ListArchived returns archived questions, most recently archived first.
func (s *QuestionService) ListArchived() ([]models.QuestionArchive, error) {
	var qs []models.QuestionArchive
	if err := s.db.Order("archived_at DESC").Find(&qs).Error; err != nil {
		return nil, err
	}
	return qs, nil
}

func (s *QuestionService) GetArchived(id uint) (*models.QuestionArchive, error) {
	var a models.QuestionArchive
	if err := s.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
