package gallery

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"image-classifier-service/internal/domain/image"
	apperrors "image-classifier-service/pkg/errors"
	"image-classifier-service/pkg/logger"
)

// Paging limits.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Repository defines the read side of the image store.
type Repository interface {
	ListByUser(ctx context.Context, userID int64, query string, page, limit int64) ([]image.Image, error)
	CountByUser(ctx context.Context, userID int64, query string) (int64, error)
}

// Usecase lists the classified images of a user.
type Usecase struct {
	repo Repository
	log  *zap.Logger
}

// New creates a new gallery Usecase.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log}
}

// ListImages retrieves a page of the user's images with optional label search.
func (uc *Usecase) ListImages(ctx context.Context, in ListImagesRequest) (*ListImagesResponse, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 {
		in.Limit = DefaultLimit
	}
	if in.Limit > MaxLimit {
		in.Limit = MaxLimit
	}

	log := logger.WithContext(ctx, uc.log)
	log.Debug("listing images", zap.String("query", in.Query), zap.Int64("page", in.Page), zap.Int64("limit", in.Limit))

	domainImages, err := uc.repo.ListByUser(ctx, in.UserID, in.Query, in.Page, in.Limit)
	if err != nil {
		return nil, uc.mapError(log, in, err)
	}

	total, err := uc.repo.CountByUser(ctx, in.UserID, in.Query)
	if err != nil {
		return nil, uc.mapError(log, in, err)
	}

	images := make([]Image, len(domainImages))
	for i, di := range domainImages {
		images[i] = Image{
			ID:             di.ID,
			Path:           di.Path,
			Classification: di.Label(),
		}
	}

	return &ListImagesResponse{
		Images:     images,
		Pagination: image.NewPagination(total, in.Page, in.Limit),
	}, nil
}

func (uc *Usecase) mapError(log *zap.Logger, in ListImagesRequest, err error) error {
	if strings.HasPrefix(err.Error(), "invalid search query") {
		log.Warn("invalid search query", zap.String("query", in.Query), zap.Error(err))
		msg := strings.TrimPrefix(err.Error(), "invalid search query: ")
		return apperrors.NewValidationError(apperrors.CodeInvalidQuery, "query", msg)
	}
	log.Error("failed to list images", zap.Int64("user_id", in.UserID), zap.Error(err))
	return apperrors.NewInternalError("failed to list images", err)
}
