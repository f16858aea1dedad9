package service

import (
	"context"
	"testing"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/Truthtechno/LockerRoom-sub000/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupEngagementDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&model.Comment{}, &model.Like{}, &model.Save{}))
	return db
}

func newTestEngagementService(db *gorm.DB) EngagementService {
	return NewEngagementService(
		repository.NewEngagementRepository(db),
		repository.NewPostRepository(db),
		newTestNotificationService(db),
	)
}

func seedPost(t *testing.T, db *gorm.DB, student *model.Student) *model.Post {
	t.Helper()

	post := &model.Post{StudentID: student.ID, Caption: "practice", MediaURL: "u", MediaType: model.MediaTypeImage}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestLikePost_IdempotentAndNotifiesOwner(t *testing.T) {
	db := setupEngagementDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	post := seedPost(t, db, student)
	fan := seedUser(t, db, "fan")

	require.NoError(t, svc.LikePost(ctx, fan.ID, post.ID))
	require.NoError(t, svc.LikePost(ctx, fan.ID, post.ID))

	likes, _, err := svc.PostCounts(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	var notifications int64
	require.NoError(t, db.Model(&model.Notification{}).
		Where("user_id = ? AND type = ?", student.UserID, model.NotificationPostLiked).
		Count(&notifications).Error)
	assert.Equal(t, int64(1), notifications)
}

func TestLikePost_OwnerLikeDoesNotNotify(t *testing.T) {
	db := setupEngagementDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	post := seedPost(t, db, student)

	require.NoError(t, svc.LikePost(ctx, student.UserID, post.ID))

	var notifications int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&notifications).Error)
	assert.Equal(t, int64(0), notifications)
}

func TestCommentOnPost_SanitizesMarkup(t *testing.T) {
	db := setupEngagementDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	post := seedPost(t, db, student)
	fan := seedUser(t, db, "fan")

	comment, err := svc.CommentOnPost(ctx, fan.ID, post.ID, `great game <script>alert("x")</script>`)
	require.NoError(t, err)
	assert.NotContains(t, comment.Body, "<script>")
	assert.Contains(t, comment.Body, "great game")
}

func TestCommentOnPost_RejectsEmptyAfterSanitize(t *testing.T) {
	db := setupEngagementDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	post := seedPost(t, db, student)
	fan := seedUser(t, db, "fan")

	_, err := svc.CommentOnPost(ctx, fan.ID, post.ID, "<b></b>")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestSavePost_PrivateBookmark(t *testing.T) {
	db := setupEngagementDB(t)
	svc := newTestEngagementService(db)
	ctx := context.Background()

	student := seedStudent(t, db, "athlete")
	post := seedPost(t, db, student)
	fan := seedUser(t, db, "fan")

	require.NoError(t, svc.SavePost(ctx, fan.ID, post.ID))
	require.NoError(t, svc.SavePost(ctx, fan.ID, post.ID))

	saved, err := svc.GetSaved(ctx, fan.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	// Saves never notify anyone.
	var notifications int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&notifications).Error)
	assert.Equal(t, int64(0), notifications)
}
