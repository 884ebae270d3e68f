package handler

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"image-classifier-service/internal/adapter/gin/middleware"
	"image-classifier-service/internal/usecase/upload"
	apperrors "image-classifier-service/pkg/errors"
	"image-classifier-service/pkg/logger"
)

// UploadUsecase defines the upload operations used by the handler
type UploadUsecase interface {
	Submit(ctx context.Context, in upload.SubmitRequest) (*upload.SubmitResponse, error)
	GetResult(ctx context.Context, id int64) (*upload.ResultResponse, error)
}

// MsgIDNotFound is the message for unknown result ids.
const MsgIDNotFound = "ID not found"

// UploadHandler handles image uploads and result lookups
type UploadHandler struct {
	uc        UploadUsecase
	maxMemory int64
	log       *zap.Logger
}

// NewUploadHandler creates a new UploadHandler. maxMemory bounds the part of
// a multipart form kept in memory; the rest spills to temporary files.
func NewUploadHandler(uc UploadUsecase, maxMemory int64, log *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uc:        uc,
		maxMemory: maxMemory,
		log:       log,
	}
}

// UploadImage handles POST /upload_image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.WithContext(ctx, h.log)

	err := c.Request.ParseMultipartForm(h.maxMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		log.Warn("Invalid upload form", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_form",
			Message: "Request body is not a valid multipart form",
		})
		return
	}

	req := upload.SubmitRequest{Question: c.PostForm("question")}
	if u, ok := middleware.CurrentUser(c); ok {
		req.UserID = u.ID
	}

	file, header, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		req.HasFilePart = true
		req.Filename = header.Filename
		req.File = file
	} else {
		// a file field sent without a filename is parsed as a plain value
		req.HasFilePart = hasValue(c.Request.MultipartForm, "file")
	}

	log.Info("Gin UploadImage request",
		zap.String("filename", req.Filename),
		zap.Bool("has_file_part", req.HasFilePart),
	)

	resp, err := h.uc.Submit(ctx, req)
	if err != nil {
		h.uploadFailure(c, log, err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/result/%d", resp.ID))
}

// GetResult handles GET /result/:id
func (h *UploadHandler) GetResult(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.WithContext(ctx, h.log)

	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("Invalid result ID", zap.String("id", idStr), zap.Error(err))
		notFound(c)
		return
	}

	resp, err := h.uc.GetResult(ctx, id)
	if err != nil {
		var nf *apperrors.NotFoundError
		if errors.As(err, &nf) {
			log.Info("Result not found", zap.Int64("id", id))
			notFound(c)
			return
		}
		log.Error("Gin GetResult failed", zap.Int64("id", id), zap.Error(err))
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ResultResponse{
		RequestID: resp.RequestID,
		Result: ResultBody{
			Classification: resp.Outcome.Classification,
			Score:          resp.Outcome.Score,
		},
		ImagePath: resp.Outcome.ImagePath,
	})
}

func (h *UploadHandler) uploadFailure(c *gin.Context, log *zap.Logger, err error) {
	var (
		validation *apperrors.ValidationError
		storage    *apperrors.StorageError
		provider   *apperrors.ProviderError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusOK, UploadFailure{Message: validation.Message})
	case errors.As(err, &storage):
		log.Error("upload could not be stored", zap.Error(err))
		c.JSON(http.StatusOK, UploadFailure{Message: storage.Message, Result: storage.Detail()})
	case errors.As(err, &provider):
		log.Error("classification failed", zap.Error(err))
		c.JSON(http.StatusOK, UploadFailure{Message: provider.Message, Result: provider.Detail})
	default:
		log.Error("Gin UploadImage failed", zap.Error(err))
		handleError(c, err)
	}
}

func hasValue(form *multipart.Form, key string) bool {
	if form == nil {
		return false
	}
	_, ok := form.Value[key]
	return ok
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, NotFoundResponse{
		Error: ErrorBody{Code: http.StatusNotFound, Message: MsgIDNotFound},
	})
}
