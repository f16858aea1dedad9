package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/Truthtechno/LockerRoom-sub000/internal/model"
	"github.com/Truthtechno/LockerRoom-sub000/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.School{},
		&model.Student{},
		&model.Post{},
		&model.Follow{},
		&model.Notification{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedStudent(t *testing.T, db *gorm.DB, username string) *model.Student {
	t.Helper()

	user := seedUser(t, db, username)
	school := &model.School{Name: fmt.Sprintf("%s High", username)}
	require.NoError(t, db.Create(school).Error)

	student := &model.Student{
		UserID:   user.ID,
		SchoolID: school.ID,
		FullName: username,
		Sport:    "basketball",
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

func newTestNotificationService(db *gorm.DB) NotificationService {
	return NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewFollowRepository(db),
		repository.NewSchoolRepository(db),
		nil,
	)
}

func TestCreate_SuppressesSelfNotification(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice")
	actorID := user.ID

	err := svc.Create(ctx, &model.Notification{
		UserID:     user.ID,
		ActorID:    &actorID,
		EntityID:   uuid.New(),
		EntityType: model.EntityPost,
		Type:       model.NotificationPostLiked,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "self-actions must not notify")
}

func TestCreate_DeduplicatesSameEvent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)
	ctx := context.Background()

	recipient := seedUser(t, db, "alice")
	actor := seedUser(t, db, "bob")
	postID := uuid.New()

	for i := 0; i < 3; i++ {
		err := svc.Create(ctx, &model.Notification{
			UserID:     recipient.ID,
			ActorID:    &actor.ID,
			EntityID:   postID,
			EntityType: model.EntityPost,
			Type:       model.NotificationPostLiked,
		})
		require.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreate_DistinctEventsBothStored(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)
	ctx := context.Background()

	recipient := seedUser(t, db, "alice")
	actor := seedUser(t, db, "bob")
	postID := uuid.New()

	require.NoError(t, svc.Create(ctx, &model.Notification{
		UserID:     recipient.ID,
		ActorID:    &actor.ID,
		EntityID:   postID,
		EntityType: model.EntityPost,
		Type:       model.NotificationPostLiked,
	}))
	require.NoError(t, svc.Create(ctx, &model.Notification{
		UserID:     recipient.ID,
		ActorID:    &actor.ID,
		EntityID:   postID,
		EntityType: model.EntityPost,
		Type:       model.NotificationPostCommented,
	}))

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestNotifyFollowersOfNewPost_ReachesEveryFollowerOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)
	ctx := context.Background()

	poster := seedStudent(t, db, "poster")
	followRepo := repository.NewFollowRepository(db)

	var followers []*model.User
	for _, name := range []string{"a", "b", "c"} {
		follower := seedUser(t, db, name)
		require.NoError(t, followRepo.Create(ctx, follower.ID, poster.ID))
		followers = append(followers, follower)
	}
	// d exists but does not follow.
	bystander := seedUser(t, db, "d")

	post := &model.Post{StudentID: poster.ID, Caption: "game day", MediaURL: "u", MediaType: model.MediaTypeImage}
	require.NoError(t, db.Create(post).Error)

	result := svc.NotifyFollowersOfNewPost(ctx, post.ID, poster.ID)

	assert.Len(t, result.Notified, 3)
	assert.Empty(t, result.Skipped)
	assert.Empty(t, result.Failed)

	for _, follower := range followers {
		var count int64
		require.NoError(t, db.Model(&model.Notification{}).
			Where("user_id = ? AND type = ?", follower.ID, model.NotificationFollowingPosted).
			Count(&count).Error)
		assert.Equal(t, int64(1), count, "follower %s should get exactly one notification", follower.Username)
	}

	var bystanderCount int64
	require.NoError(t, db.Model(&model.Notification{}).
		Where("user_id = ?", bystander.ID).
		Count(&bystanderCount).Error)
	assert.Equal(t, int64(0), bystanderCount)

	var posterCount int64
	require.NoError(t, db.Model(&model.Notification{}).
		Where("user_id = ?", poster.UserID).
		Count(&posterCount).Error)
	assert.Equal(t, int64(0), posterCount, "the poster never hears about their own post")
}

func TestNotifyFollowersOfNewPost_RerunInsertsNothing(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)
	ctx := context.Background()

	poster := seedStudent(t, db, "poster")
	followRepo := repository.NewFollowRepository(db)

	follower := seedUser(t, db, "fan")
	require.NoError(t, followRepo.Create(ctx, follower.ID, poster.ID))

	post := &model.Post{StudentID: poster.ID, Caption: "highlights", MediaURL: "u", MediaType: model.MediaTypeVideo}
	require.NoError(t, db.Create(post).Error)

	svc.NotifyFollowersOfNewPost(ctx, post.ID, poster.ID)
	svc.NotifyFollowersOfNewPost(ctx, post.ID, poster.ID)

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNotifyFollowersOfNewPost_NoFollowers(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)
	ctx := context.Background()

	poster := seedStudent(t, db, "loner")
	post := &model.Post{StudentID: poster.ID, Caption: "hello", MediaURL: "u", MediaType: model.MediaTypeImage}
	require.NoError(t, db.Create(post).Error)

	result := svc.NotifyFollowersOfNewPost(ctx, post.ID, poster.ID)

	assert.Empty(t, result.Notified)
	assert.Empty(t, result.Failed)

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestMarkAllAsRead(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)
	ctx := context.Background()

	recipient := seedUser(t, db, "alice")
	actor := seedUser(t, db, "bob")

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Create(ctx, &model.Notification{
			UserID:     recipient.ID,
			ActorID:    &actor.ID,
			EntityID:   uuid.New(),
			EntityType: model.EntityPost,
			Type:       model.NotificationPostLiked,
		}))
	}

	unread, err := svc.UnreadCount(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	require.NoError(t, svc.MarkAllAsRead(ctx, recipient.ID))

	unread, err = svc.UnreadCount(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}
