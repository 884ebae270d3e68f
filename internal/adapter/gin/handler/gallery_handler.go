package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"image-classifier-service/internal/adapter/gin/middleware"
	"image-classifier-service/internal/usecase/gallery"
	"image-classifier-service/pkg/logger"
)

// GalleryUsecase lists the images owned by a user
type GalleryUsecase interface {
	ListImages(ctx context.Context, in gallery.ListImagesRequest) (*gallery.ListImagesResponse, error)
}

// GalleryHandler serves the signed-in user's home page
type GalleryHandler struct {
	uc  GalleryUsecase
	log *zap.Logger
}

// NewGalleryHandler creates a new GalleryHandler instance
func NewGalleryHandler(uc GalleryUsecase, log *zap.Logger) *GalleryHandler {
	return &GalleryHandler{
		uc:  uc,
		log: log,
	}
}

// Home handles GET /
func (h *GalleryHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.WithContext(ctx, h.log)

	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}

	query := c.DefaultQuery("query", "")
	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", strconv.Itoa(gallery.DefaultLimit))

	page, err := strconv.ParseInt(pageStr, 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit < 1 {
		limit = gallery.DefaultLimit
	}

	log.Info("Gin Home request", zap.String("query", query), zap.Int64("page", page), zap.Int64("limit", limit))

	resp, err := h.uc.ListImages(ctx, gallery.ListImagesRequest{
		UserID: u.ID,
		Query:  query,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		log.Error("Gin Home failed", zap.Error(err))
		handleError(c, err)
		return
	}

	images := make([]ImageResponse, len(resp.Images))
	for i, img := range resp.Images {
		images[i] = ImageResponse{
			ID:             img.ID,
			Path:           img.Path,
			Classification: img.Classification,
		}
	}

	var pagination *Pagination
	if resp.Pagination != nil {
		pagination = &Pagination{
			Total:      resp.Pagination.Total,
			Page:       resp.Pagination.Page,
			Limit:      resp.Pagination.Limit,
			TotalPages: resp.Pagination.TotalPages,
		}
	}

	c.JSON(http.StatusOK, HomeResponse{
		User: UserResponse{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
		},
		Images:     images,
		Pagination: pagination,
	})
}
