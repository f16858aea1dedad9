package service

import (
	"context"
	"testing"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupXenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&model.XenSubmission{}, &model.XenReview{}))
	return db
}

func newTestXenService(db *gorm.DB) XenService {
	return NewXenService(
		repository.NewXenRepository(db),
		repository.NewSchoolRepository(db),
		nil,
		newTestNotificationService(db),
		2500,
	)
}

func seedSubmission(t *testing.T, db *gorm.DB, student *model.Student, status string) *model.XenSubmission {
	t.Helper()

	submission := &model.XenSubmission{
		StudentID: student.ID,
		VideoURL:  "https://example.com/clip.mp4",
		Status:    status,
		FeeCents:  2500,
	}
	require.NoError(t, db.Create(submission).Error)
	return submission
}

func TestConfirmPayment_MovesSubmissionIntoReview(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	submission := seedSubmission(t, db, student, model.XenStatusPendingPayment)

	updated, err := svc.ConfirmPayment(ctx, student.UserID, submission.ID, "pay_123")
	require.NoError(t, err)

	assert.Equal(t, model.XenStatusInReview, updated.Status)
	require.NotNil(t, updated.PaymentReference)
	assert.Equal(t, "pay_123", *updated.PaymentReference)
	assert.NotNil(t, updated.PaidAt)
}

func TestConfirmPayment_RejectsDoublePayment(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	submission := seedSubmission(t, db, student, model.XenStatusInReview)

	_, err := svc.ConfirmPayment(ctx, student.UserID, submission.ID, "pay_456")
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestConfirmPayment_OnlyOwnerCanPay(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	owner := seedStudent(t, db, "athlete")
	other := seedStudent(t, db, "rival")
	submission := seedSubmission(t, db, owner, model.XenStatusPendingPayment)

	_, err := svc.ConfirmPayment(ctx, other.UserID, submission.ID, "pay_789")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	var stored model.XenSubmission
	require.NoError(t, db.First(&stored, "id = ?", submission.ID).Error)
	assert.Equal(t, model.XenStatusPendingPayment, stored.Status)
	assert.Nil(t, stored.PaymentReference)

	updated, err := svc.ConfirmPayment(ctx, owner.UserID, submission.ID, "pay_789")
	require.NoError(t, err)
	assert.Equal(t, model.XenStatusInReview, updated.Status)
}

func TestAddReview_RequiresInReviewStatus(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	submission := seedSubmission(t, db, student, model.XenStatusPendingPayment)
	scout := seedUser(t, db, "scout")

	_, err := svc.AddReview(ctx, scout.ID, submission.ID, ReviewInput{Score: 7})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestAddReview_RejectsOutOfRangeScore(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	submission := seedSubmission(t, db, student, model.XenStatusInReview)
	scout := seedUser(t, db, "scout")

	for _, score := range []int{0, 11, -3} {
		_, err := svc.AddReview(ctx, scout.ID, submission.ID, ReviewInput{Score: score})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, "score %d should be rejected", score)
	}
}

func TestAddReview_OneReviewPerScout(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	submission := seedSubmission(t, db, student, model.XenStatusInReview)
	scout := seedUser(t, db, "scout")

	_, err := svc.AddReview(ctx, scout.ID, submission.ID, ReviewInput{Score: 8, Feedback: "strong footwork"})
	require.NoError(t, err)

	_, err = svc.AddReview(ctx, scout.ID, submission.ID, ReviewInput{Score: 9})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestFinalize_ApproveAveragesScoresAndNotifiesStudent(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	submission := seedSubmission(t, db, student, model.XenStatusInReview)

	for i, name := range []string{"scout1", "scout2"} {
		scout := seedUser(t, db, name)
		_, err := svc.AddReview(ctx, scout.ID, submission.ID, ReviewInput{Score: 7 + i*2})
		require.NoError(t, err)
	}

	admin := seedUser(t, db, "scoutadmin")
	updated, err := svc.Finalize(ctx, admin.ID, submission.ID, true)
	require.NoError(t, err)

	assert.Equal(t, model.XenStatusFinalized, updated.Status)
	require.NotNil(t, updated.FinalRating)
	assert.InDelta(t, 8.0, *updated.FinalRating, 0.001)
	require.NotNil(t, updated.FinalizedByID)
	assert.Equal(t, admin.ID, *updated.FinalizedByID)

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).
		Where("user_id = ? AND type = ?", student.UserID, model.NotificationXenFinalized).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFinalize_RejectNotifiesStudent(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	submission := seedSubmission(t, db, student, model.XenStatusInReview)
	admin := seedUser(t, db, "scoutadmin")

	updated, err := svc.Finalize(ctx, admin.ID, submission.ID, false)
	require.NoError(t, err)

	assert.Equal(t, model.XenStatusRejected, updated.Status)
	assert.Nil(t, updated.FinalRating)

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).
		Where("user_id = ? AND type = ?", student.UserID, model.NotificationXenRejected).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFinalize_ApproveWithoutReviewsFails(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	submission := seedSubmission(t, db, student, model.XenStatusInReview)
	admin := seedUser(t, db, "scoutadmin")

	_, err := svc.Finalize(ctx, admin.ID, submission.ID, true)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestFinalize_TerminalStatesAreFinal(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	admin := seedUser(t, db, "scoutadmin")

	for _, status := range []string{model.XenStatusFinalized, model.XenStatusRejected} {
		submission := seedSubmission(t, db, student, status)
		_, err := svc.Finalize(ctx, admin.ID, submission.ID, false)
		assert.ErrorIs(t, err, apperror.ErrInvalidTransition, "status %s must not be finalizable again", status)
	}
}

func TestGetSubmission_NotFound(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)

	_, err := svc.GetSubmission(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetSubmission_StudentsOnlySeeTheirOwn(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	owner := seedStudent(t, db, "athlete")
	other := seedStudent(t, db, "rival")
	submission := seedSubmission(t, db, owner, model.XenStatusInReview)

	_, err := svc.GetSubmission(ctx, other.UserID, submission.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	found, err := svc.GetSubmission(ctx, owner.UserID, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, submission.ID, found.ID)
}

func TestGetSubmission_ScoutsReadAnySubmission(t *testing.T) {
	db := setupXenDB(t)
	svc := newTestXenService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	submission := seedSubmission(t, db, student, model.XenStatusInReview)
	scout := seedUser(t, db, "scout")

	found, err := svc.GetSubmission(ctx, scout.ID, submission.ID)
	require.NoError(t, err)
	assert.Equal(t, submission.ID, found.ID)
}
