package upload

import (
	"context"
	"io"

	"go.uber.org/zap"

	"image-classifier-service/internal/domain/classification"
	"image-classifier-service/internal/domain/image"
	"image-classifier-service/pkg/logger"
)

// Classifier labels a stored image.
type Classifier interface {
	Classify(ctx context.Context, question, imagePath string) (*classification.Outcome, error)
}

// ResultStore keeps outcomes addressable by id.
type ResultStore interface {
	NextID() int64
	Put(ctx context.Context, id int64, outcome classification.Outcome)
	Get(ctx context.Context, id int64) (classification.Outcome, error)
}

// FileStore persists uploaded bytes.
type FileStore interface {
	Save(ctx context.Context, filename string, src io.Reader) (string, error)
}

// ImageRecorder persists classified images for their owner.
type ImageRecorder interface {
	Create(ctx context.Context, img *image.Image) (int64, error)
}

// JobTracker counts classification jobs.
type JobTracker interface {
	Begin() func(ok bool)
}

// Service runs the upload, classify and store flow.
type Service struct {
	files      FileStore
	classifier Classifier
	results    ResultStore
	images     ImageRecorder
	jobs       JobTracker
	log        *zap.Logger
}

// New creates an upload Service. images may be nil to skip persistence.
func New(files FileStore, classifier Classifier, results ResultStore, images ImageRecorder, jobs JobTracker, log *zap.Logger) *Service {
	return &Service{
		files:      files,
		classifier: classifier,
		results:    results,
		images:     images,
		jobs:       jobs,
		log:        log,
	}
}

// Submit validates and stores the upload, classifies it and records the
// outcome under a new id. Validation, storage and provider failures are
// returned as typed errors and leave the registry untouched.
func (s *Service) Submit(ctx context.Context, in SubmitRequest) (*SubmitResponse, error) {
	log := logger.WithContext(ctx, s.log)

	if err := Validate(in.HasFilePart, in.Filename); err != nil {
		log.Info("upload rejected", zap.String("filename", in.Filename), zap.Error(err))
		return nil, err
	}

	path, err := s.files.Save(ctx, in.Filename, in.File)
	if err != nil {
		return nil, err
	}

	done := s.jobs.Begin()
	outcome, err := s.classifier.Classify(ctx, in.Question, path)
	done(err == nil)
	if err != nil {
		return nil, err
	}

	id := s.results.NextID()
	s.results.Put(ctx, id, *outcome)
	log.Info("classification stored", zap.Int64("request_id", id), zap.String("classification", outcome.Classification))

	s.record(ctx, in.UserID, outcome)

	return &SubmitResponse{ID: id}, nil
}

func (s *Service) record(ctx context.Context, userID int64, outcome *classification.Outcome) {
	if s.images == nil {
		return
	}

	label := outcome.Classification
	img := &image.Image{Path: outcome.ImagePath, Classification: &label}
	if userID > 0 {
		img.UserID = &userID
	}

	if _, err := s.images.Create(ctx, img); err != nil {
		logger.WithContext(ctx, s.log).Warn("failed to persist classified image", zap.String("path", outcome.ImagePath), zap.Error(err))
	}
}

// GetResult returns the outcome stored under id.
func (s *Service) GetResult(ctx context.Context, id int64) (*ResultResponse, error) {
	outcome, err := s.results.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ResultResponse{RequestID: id, Outcome: outcome}, nil
}
