package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"image-classifier-service/internal/domain/image"
	"image-classifier-service/pkg/security"
)

// ImageRepo stores classified images using GORM.
type ImageRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewImageRepo creates a new instance of ImageRepo.
func NewImageRepo(db *gorm.DB, log *zap.Logger) *ImageRepo {
	return &ImageRepo{db: db, log: log}
}

// ImageSchema represents the database schema for the images table.
type ImageSchema struct {
	ID             int64   `gorm:"primaryKey;autoIncrement"`
	Path           string  `gorm:"size:300;not null"`
	Classification *string `gorm:"size:300"`
	UserID         *int64  `gorm:"index"`
}

// TableName specifies the table name for the ImageSchema model.
func (ImageSchema) TableName() string {
	return "images"
}

func (m ImageSchema) toDomain() image.Image {
	return image.Image{
		ID:             m.ID,
		Path:           m.Path,
		Classification: m.Classification,
		UserID:         m.UserID,
	}
}

// Create inserts a new image record.
func (r *ImageRepo) Create(ctx context.Context, img *image.Image) (int64, error) {
	if img == nil {
		return 0, errors.New("image cannot be nil")
	}

	model := ImageSchema{
		Path:           img.Path,
		Classification: img.Classification,
		UserID:         img.UserID,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create image in db", zap.Error(err), zap.String("path", img.Path))
		return 0, fmt.Errorf("failed to create image: %w", err)
	}

	r.log.Debug("image created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// searchScope restricts a query to one owner and, optionally, to labels
// containing query. query must already be validated.
func searchScope(userID int64, query string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", userID)
		if query == "" {
			return db
		}
		pattern := "%" + security.EscapeLike(query) + "%"
		return db.Where(`LOWER(classification) LIKE LOWER(?) ESCAPE '\'`, pattern)
	}
}

// ListByUser returns a page of the user's images whose label contains query,
// newest first.
func (r *ImageRepo) ListByUser(ctx context.Context, userID int64, query string, page, limit int64) ([]image.Image, error) {
	sanitized, err := security.ValidateSearchQuery(query)
	if err != nil {
		r.log.Warn("invalid search query", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("invalid search query: %w", err)
	}

	var models []ImageSchema
	if err := r.db.WithContext(ctx).
		Scopes(searchScope(userID, sanitized)).
		Order("id DESC").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list images from db", zap.Error(err), zap.Int64("user_id", userID), zap.Int64("page", page), zap.Int64("limit", limit))
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	images := make([]image.Image, len(models))
	for i, model := range models {
		images[i] = model.toDomain()
	}

	return images, nil
}

// CountByUser returns how many of the user's images match query.
func (r *ImageRepo) CountByUser(ctx context.Context, userID int64, query string) (int64, error) {
	sanitized, err := security.ValidateSearchQuery(query)
	if err != nil {
		return 0, fmt.Errorf("invalid search query: %w", err)
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&ImageSchema{}).
		Scopes(searchScope(userID, sanitized)).
		Count(&total).Error; err != nil {
		r.log.Error("failed to count images in db", zap.Error(err), zap.Int64("user_id", userID))
		return 0, fmt.Errorf("failed to count images: %w", err)
	}

	return total, nil
}

// AutoMigrate creates or updates the users and images tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}, &ImageSchema{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
