package services

import (
	"errors"
	"time"

	"github.com/Adiar1/Crackd/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAlreadyArchived marks an archive attempt on an id that is already in
// the archive table. It is an expected outcome, not a fault: the move is
// refused and both tables stay unchanged.
var ErrAlreadyArchived = errors.New("question already archived")

type ArchiveService struct {
	db *gorm.DB
}

func NewArchiveService(db *gorm.DB) *ArchiveService {
	return &ArchiveService{db: db}
}

// ArchiveResult reports a batch archive per id: archiving is deliberately
// per-id independent, so one already-archived id never poisons the rest.
type ArchiveResult struct {
	Archived []uint
	Failed   []uint
}

// Archive moves each selected question into the archive table, preserving
// its id. Each move runs in its own transaction; failures (already archived,
// missing) are reported per id and do not stop the batch.
func (s *ArchiveService) Archive(ids []uint) ArchiveResult {
	var res ArchiveResult
	for _, id := range ids {
		if err := s.archiveOne(id); err != nil {
			res.Failed = append(res.Failed, id)
		} else {
			res.Archived = append(res.Archived, id)
		}
	}
	return res
}

// ArchiveOne moves a single question into the archive table.
func (s *ArchiveService) ArchiveOne(id uint) error {
	return s.archiveOne(id)
}

func (s *ArchiveService) archiveOne(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.QuestionArchive
		if err := tx.Select("id").First(&existing, id).Error; err == nil {
			return ErrAlreadyArchived
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var q models.Question
		if err := tx.First(&q, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		archived := q.ToArchive()
		archived.ArchivedAt = time.Now().UTC().Truncate(time.Second)
		if err := tx.Create(&archived).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, id).Error
	})
}

// Recover moves archived questions back to the active table under their
// original ids, overwriting any active row that reuses an id. The whole
// batch runs in one transaction: any failure rolls back every move. Missing
// ids are skipped; the returned slice lists the ids actually recovered.
func (s *ArchiveService) Recover(ids []uint) ([]uint, error) {
	var recovered []uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			var a models.QuestionArchive
			if err := tx.First(&a, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}

			q := a.ToQuestion()
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&q).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.QuestionArchive{}, id).Error; err != nil {
				return err
			}
			recovered = append(recovered, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recovered, nil
}

// Delete permanently removes archived questions. Destructive and
// all-or-nothing: one transaction, rolled back entirely on any failure.
func (s *ArchiveService) Delete(ids []uint) ([]uint, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if err := tx.Delete(&models.QuestionArchive{}, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
