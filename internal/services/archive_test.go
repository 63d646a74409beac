package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adiar1/Crackd/internal/models"
)

func TestArchivePreservesIDAndContent(t *testing.T) {
	db := newTestDB(t)
	svc := NewArchiveService(db)
	q := seedMathQuestion(t, db)

	require.NoError(t, svc.ArchiveOne(q.ID))

	var gone models.Question
	assert.Error(t, db.First(&gone, q.ID).Error)

	var a models.QuestionArchive
	require.NoError(t, db.First(&a, q.ID).Error)
	assert.Equal(t, q.ID, a.ID)
	assert.Equal(t, q.Text, a.Text)
	assert.Equal(t, q.CorrectAnswer, a.CorrectAnswer)
	assert.False(t, a.ArchivedAt.IsZero())
}

func TestArchiveAlreadyArchived(t *testing.T) {
	db := newTestDB(t)
	svc := NewArchiveService(db)
	q := seedMathQuestion(t, db)

	require.NoError(t, svc.ArchiveOne(q.ID))

	// a new active question reusing the archived id
	reused := q
	reused.Text = "A different question under the same id."
	require.NoError(t, db.Create(&reused).Error)

	err := svc.ArchiveOne(q.ID)
	assert.ErrorIs(t, err, ErrAlreadyArchived)

	// the refused move leaves both tables untouched
	var active models.Question
	require.NoError(t, db.First(&active, q.ID).Error)
	assert.Equal(t, reused.Text, active.Text)

	var a models.QuestionArchive
	require.NoError(t, db.First(&a, q.ID).Error)
	assert.Equal(t, q.Text, a.Text)
}

func TestArchiveBatchPartialSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewArchiveService(db)

	q1 := seedMathQuestion(t, db)
	q2 := seedMathQuestion(t, db)
	require.NoError(t, svc.ArchiveOne(q2.ID))

	res := svc.Archive([]uint{q1.ID, q2.ID, 9999})
	assert.Equal(t, []uint{q1.ID}, res.Archived)
	assert.Equal(t, []uint{q2.ID, 9999}, res.Failed)
}

func TestRecoverRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewArchiveService(db)
	q := seedMathQuestion(t, db)

	require.NoError(t, svc.ArchiveOne(q.ID))

	recovered, err := svc.Recover([]uint{q.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{q.ID}, recovered)

	var back models.Question
	require.NoError(t, db.First(&back, q.ID).Error)
	assert.Equal(t, q, back)

	var count int64
	db.Model(&models.QuestionArchive{}).Where("id = ?", q.ID).Count(&count)
	assert.Zero(t, count)
}

func TestRecoverOverwritesActiveRowWithSameID(t *testing.T) {
	db := newTestDB(t)
	svc := NewArchiveService(db)
	q := seedMathQuestion(t, db)

	require.NoError(t, svc.ArchiveOne(q.ID))

	usurper := q
	usurper.Text = "Usurper question holding the id."
	require.NoError(t, db.Create(&usurper).Error)

	_, err := svc.Recover([]uint{q.ID})
	require.NoError(t, err)

	var back models.Question
	require.NoError(t, db.First(&back, q.ID).Error)
	assert.Equal(t, q.Text, back.Text)
}

func TestRecoverSkipsMissingIDs(t *testing.T) {
	db := newTestDB(t)
	svc := NewArchiveService(db)
	q := seedMathQuestion(t, db)
	require.NoError(t, svc.ArchiveOne(q.ID))

	recovered, err := svc.Recover([]uint{9999, q.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{q.ID}, recovered)
}

func TestRecoverRollsBackWholeBatchOnFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewArchiveService(db)

	q1 := seedMathQuestion(t, db)
	q2 := seedMathQuestion(t, db)
	q3 := seedMathQuestion(t, db)
	for _, id := range []uint{q1.ID, q2.ID, q3.ID} {
		require.NoError(t, svc.ArchiveOne(id))
	}

	// make the second insert blow up mid-batch
	require.NoError(t, db.Exec(fmt.Sprintf(
		`CREATE TRIGGER block_recover BEFORE INSERT ON questions
		 WHEN NEW.id = %d
		 BEGIN SELECT RAISE(ABORT, 'recover blocked'); END`, q2.ID)).Error)

	_, err := svc.Recover([]uint{q1.ID, q2.ID, q3.ID})
	require.Error(t, err)

	// the already-recovered first id rolled back with the rest
	var activeCount, archivedCount int64
	db.Model(&models.Question{}).Count(&activeCount)
	db.Model(&models.QuestionArchive{}).Count(&archivedCount)
	assert.Zero(t, activeCount)
	assert.Equal(t, int64(3), archivedCount)
}

func TestDeleteRollsBackWholeBatchOnFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewArchiveService(db)

	q1 := seedMathQuestion(t, db)
	q2 := seedMathQuestion(t, db)
	require.NoError(t, svc.ArchiveOne(q1.ID))
	require.NoError(t, svc.ArchiveOne(q2.ID))

	require.NoError(t, db.Exec(fmt.Sprintf(
		`CREATE TRIGGER block_delete BEFORE DELETE ON question_archives
		 WHEN OLD.id = %d
		 BEGIN SELECT RAISE(ABORT, 'delete blocked'); END`, q2.ID)).Error)

	_, err := svc.Delete([]uint{q1.ID, q2.ID})
	require.Error(t, err)

	var archivedCount int64
	db.Model(&models.QuestionArchive{}).Count(&archivedCount)
	assert.Equal(t, int64(2), archivedCount)
}

func TestDeleteRemovesPermanently(t *testing.T) {
	db := newTestDB(t)
	svc := NewArchiveService(db)

	q1 := seedMathQuestion(t, db)
	q2 := seedMathQuestion(t, db)
	require.NoError(t, svc.ArchiveOne(q1.ID))
	require.NoError(t, svc.ArchiveOne(q2.ID))

	deleted, err := svc.Delete([]uint{q1.ID, q2.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{q1.ID, q2.ID}, deleted)

	var count int64
	db.Model(&models.QuestionArchive{}).Count(&count)
	assert.Zero(t, count)
}
