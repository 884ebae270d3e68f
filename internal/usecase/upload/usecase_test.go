package upload

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"image-classifier-service/internal/adapter/registry"
	"image-classifier-service/internal/domain/classification"
	"image-classifier-service/internal/domain/image"
	"image-classifier-service/internal/usecase/status"
	apperrors "image-classifier-service/pkg/errors"
)

// MockClassifier is a mock implementation of the Classifier interface
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, question, imagePath string) (*classification.Outcome, error) {
	args := m.Called(ctx, question, imagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classification.Outcome), args.Error(1)
}

// MockRecorder is a mock implementation of the ImageRecorder interface
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Create(ctx context.Context, img *image.Image) (int64, error) {
	args := m.Called(ctx, img)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	svc        *Service
	classifier *MockClassifier
	recorder   *MockRecorder
	results    *registry.Registry
	reporter   *status.Reporter
	dir        string
}

func setupService(t *testing.T) *fixture {
	f := &fixture{
		classifier: new(MockClassifier),
		recorder:   new(MockRecorder),
		results:    registry.New(),
		reporter:   status.NewReporter(),
		dir:        t.TempDir(),
	}
	log := zaptest.NewLogger(t)
	f.svc = New(NewDiskStorage(f.dir, log), f.classifier, f.results, f.recorder, f.reporter, log)
	return f
}

func pngUpload(userID int64, question string) SubmitRequest {
	return SubmitRequest{
		UserID:      userID,
		HasFilePart: true,
		Filename:    "cat.png",
		File:        strings.NewReader("png-bytes"),
		Question:    question,
	}
}

func TestSubmit_Success(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	path := filepath.Join(f.dir, "cat.png")

	f.classifier.On("Classify", ctx, "What animal is this?", path).
		Return(&classification.Outcome{Classification: "cat", Score: 10, ImagePath: path}, nil)
	f.recorder.On("Create", ctx, mock.MatchedBy(func(img *image.Image) bool {
		return img.Path == path && img.Label() == "cat" && img.UserID != nil && *img.UserID == 7
	})).Return(int64(1), nil)

	resp, err := f.svc.Submit(ctx, pngUpload(7, "What animal is this?"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	result, err := f.svc.GetResult(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RequestID)
	assert.Equal(t, "cat", result.Outcome.Classification)
	assert.Equal(t, float64(10), result.Outcome.Score)
	assert.Equal(t, path, result.Outcome.ImagePath)

	s := f.reporter.Snapshot()
	assert.Equal(t, int64(1), s.Processed.Success)
	assert.Equal(t, int64(0), s.Processed.Running)

	f.classifier.AssertExpectations(t)
	f.recorder.AssertExpectations(t)
}

func TestSubmit_SuccessiveUploadsGetDistinctIDs(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	f.classifier.On("Classify", ctx, mock.Anything, mock.Anything).
		Return(&classification.Outcome{Classification: "cat", Score: 1}, nil).Once()
	f.classifier.On("Classify", ctx, mock.Anything, mock.Anything).
		Return(&classification.Outcome{Classification: "dog", Score: 2}, nil).Once()
	f.recorder.On("Create", ctx, mock.Anything).Return(int64(1), nil)

	first, err := f.svc.Submit(ctx, pngUpload(1, "q"))
	require.NoError(t, err)
	second, err := f.svc.Submit(ctx, pngUpload(1, "q"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	r1, err := f.svc.GetResult(ctx, first.ID)
	require.NoError(t, err)
	r2, err := f.svc.GetResult(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "cat", r1.Outcome.Classification)
	assert.Equal(t, "dog", r2.Outcome.Classification)
}

func TestSubmit_ValidationFailureTouchesNothing(t *testing.T) {
	f := setupService(t)

	req := pngUpload(1, "q")
	req.Filename = "notes.txt"

	_, err := f.svc.Submit(context.Background(), req)

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperrors.CodeDisallowedType, ve.Code)
	f.classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, status.Processed{}, f.reporter.Snapshot().Processed)
}

func TestSubmit_ProviderFailure(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	f.classifier.On("Classify", ctx, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewProviderError("Failed to classify image", errors.New("Image load failed")))

	_, err := f.svc.Submit(ctx, pngUpload(1, "q"))

	var pe *apperrors.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Image load failed", pe.Detail)

	assert.Equal(t, 0, f.results.Len())
	s := f.reporter.Snapshot()
	assert.Equal(t, int64(1), s.Processed.Fail)
	assert.Equal(t, int64(0), s.Processed.Success)
	f.recorder.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_PersistenceFailureIsNotFatal(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	f.classifier.On("Classify", ctx, mock.Anything, mock.Anything).
		Return(&classification.Outcome{Classification: "cat", Score: 10}, nil)
	f.recorder.On("Create", ctx, mock.Anything).Return(int64(0), errors.New("db locked"))

	resp, err := f.svc.Submit(ctx, pngUpload(1, "q"))
	require.NoError(t, err)

	_, err = f.svc.GetResult(ctx, resp.ID)
	require.NoError(t, err)
}

func TestSubmit_WithoutRecorder(t *testing.T) {
	classifier := new(MockClassifier)
	log := zaptest.NewLogger(t)
	svc := New(NewDiskStorage(t.TempDir(), log), classifier, registry.New(), nil, status.NewReporter(), log)

	classifier.On("Classify", mock.Anything, "", mock.Anything).
		Return(&classification.Outcome{Classification: "cat", Score: 10}, nil)

	resp, err := svc.Submit(context.Background(), pngUpload(0, ""))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
}

func TestGetResult_NotFound(t *testing.T) {
	f := setupService(t)

	_, err := f.svc.GetResult(context.Background(), 99)

	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
}
