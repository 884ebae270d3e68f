package gormrepo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"image-classifier-service/internal/domain/image"
	"image-classifier-service/internal/domain/user"
	apperrors "image-classifier-service/pkg/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// one connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func strPtr(s string) *string { return &s }

func TestUserRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()

	id, err := repo.Create(ctx, &user.User{Email: "ann@example.com", Password: "hash", FirstName: "Ann"})
	require.NoError(t, err)
	assert.Positive(t, id)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", byID.Email)
	assert.Equal(t, "hash", byID.Password)
	assert.Equal(t, "Ann", byID.FirstName)

	byEmail, err := repo.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)
}

func TestUserRepo_GetByEmail_Missing(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t), zaptest.NewLogger(t))

	u, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepo_GetByID_Missing(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t), zaptest.NewLogger(t))

	u, err := repo.GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.Nil(t, u)

	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t), zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &user.User{Email: "dup@example.com", Password: "hash", FirstName: "One"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &user.User{Email: "dup@example.com", Password: "hash", FirstName: "Two"})
	require.Error(t, err)
}

func TestUserRepo_Create_Nil(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t), zaptest.NewLogger(t))

	_, err := repo.Create(context.Background(), nil)
	require.Error(t, err)
}

func TestUserRepo_Delete_CascadesImages(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepo(db, zaptest.NewLogger(t))
	images := NewImageRepo(db, zaptest.NewLogger(t))
	ctx := context.Background()

	ownerID, err := users.Create(ctx, &user.User{Email: "owner@example.com", Password: "hash", FirstName: "Owner"})
	require.NoError(t, err)
	otherID, err := users.Create(ctx, &user.User{Email: "other@example.com", Password: "hash", FirstName: "Other"})
	require.NoError(t, err)

	_, err = images.Create(ctx, &image.Image{Path: "uploads/a.png", Classification: strPtr("cat"), UserID: &ownerID})
	require.NoError(t, err)
	_, err = images.Create(ctx, &image.Image{Path: "uploads/b.png", Classification: strPtr("dog"), UserID: &otherID})
	require.NoError(t, err)
	_, err = images.Create(ctx, &image.Image{Path: "uploads/c.png"})
	require.NoError(t, err)

	deleted, err := users.Delete(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, deleted)

	var remaining []ImageSchema
	require.NoError(t, db.Order("id").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, "uploads/b.png", remaining[0].Path)
	assert.Equal(t, "uploads/c.png", remaining[1].Path)
	assert.Nil(t, remaining[1].UserID)
}

func TestUserRepo_Delete_InvalidID(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t), zaptest.NewLogger(t))

	_, err := repo.Delete(context.Background(), 0)
	require.Error(t, err)
}
