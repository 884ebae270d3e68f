package classifier

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/genai"

	apperrors "image-classifier-service/pkg/errors"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type fakeGenerator struct {
	answer   string
	err      error
	block    bool
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.answer, genai.RoleModel),
		}},
	}, nil
}

func writeImage(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))
	return path
}

func newTestClassifier(t *testing.T, gen generator) *GeminiClassifier {
	c := NewGeminiClassifier(Config{Model: "gemini-test", DefaultScore: 10, Timeout: time.Second}, zaptest.NewLogger(t))
	c.newClient = func(context.Context, Config) (generator, error) { return gen, nil }
	return c
}

func requireProviderError(t *testing.T, err error) *apperrors.ProviderError {
	t.Helper()
	var pe *apperrors.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, FailureMessage, pe.Message)
	return pe
}

func TestClassify_JSONAnswer(t *testing.T) {
	gen := &fakeGenerator{answer: `{"label":"cat","score":0.93}`}
	c := newTestClassifier(t, gen)
	path := writeImage(t)

	outcome, err := c.Classify(context.Background(), "What animal is this?", path)
	require.NoError(t, err)
	assert.Equal(t, "cat", outcome.Classification)
	assert.Equal(t, 0.93, outcome.Score)
	assert.Equal(t, path, outcome.ImagePath)

	assert.Equal(t, "gemini-test", gen.model)
	require.Len(t, gen.contents, 1)
	parts := gen.contents[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, "What animal is this?", parts[1].Text)
	require.NotNil(t, parts[2].InlineData)
	assert.Equal(t, "image/png", parts[2].InlineData.MIMEType)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
}

func TestClassify_PlainTextAnswerUsesDefaultScore(t *testing.T) {
	c := newTestClassifier(t, &fakeGenerator{answer: " cat \n"})

	outcome, err := c.Classify(context.Background(), "What animal is this?", writeImage(t))
	require.NoError(t, err)
	assert.Equal(t, "cat", outcome.Classification)
	assert.Equal(t, float64(10), outcome.Score)
}

func TestClassify_EmptyQuestionIsPassedThrough(t *testing.T) {
	gen := &fakeGenerator{answer: `{"label":"dog"}`}
	c := newTestClassifier(t, gen)

	outcome, err := c.Classify(context.Background(), "", writeImage(t))
	require.NoError(t, err)
	assert.Equal(t, "dog", outcome.Classification)
	assert.Equal(t, float64(10), outcome.Score)
	assert.Len(t, gen.contents[0].Parts, 2)
}

func TestClassify_Failures(t *testing.T) {
	tests := []struct {
		name       string
		gen        *fakeGenerator
		imagePath  func(t *testing.T) string
		wantDetail string
	}{
		{
			name:       "unreadable image",
			gen:        &fakeGenerator{answer: "cat"},
			imagePath:  func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.png") },
			wantDetail: "failed to read image",
		},
		{
			name:       "provider error",
			gen:        &fakeGenerator{err: errors.New("Image load failed")},
			imagePath:  writeImage,
			wantDetail: "Image load failed",
		},
		{
			name:       "empty answer",
			gen:        &fakeGenerator{answer: "   "},
			imagePath:  writeImage,
			wantDetail: "no answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(t, tt.gen)

			outcome, err := c.Classify(context.Background(), "q", tt.imagePath(t))
			assert.Nil(t, outcome)
			pe := requireProviderError(t, err)
			assert.Contains(t, pe.Detail, tt.wantDetail)
		})
	}
}

func TestClassify_Timeout(t *testing.T) {
	c := newTestClassifier(t, &fakeGenerator{block: true})
	c.cfg.Timeout = 20 * time.Millisecond

	_, err := c.Classify(context.Background(), "q", writeImage(t))
	pe := requireProviderError(t, err)
	assert.Contains(t, pe.Detail, context.DeadlineExceeded.Error())
}

func TestClassify_MissingCredentials(t *testing.T) {
	c := NewGeminiClassifier(Config{
		CredentialsFile: filepath.Join(t.TempDir(), "server_auth.json"),
		Model:           "gemini-test",
	}, zaptest.NewLogger(t))

	_, err := c.Classify(context.Background(), "q", writeImage(t))
	pe := requireProviderError(t, err)
	assert.Contains(t, pe.Detail, "credentials file unavailable")
}

func TestClassify_ClientBuiltOnce(t *testing.T) {
	calls := 0
	c := NewGeminiClassifier(Config{Model: "m", DefaultScore: 10}, zaptest.NewLogger(t))
	c.newClient = func(context.Context, Config) (generator, error) {
		calls++
		return &fakeGenerator{answer: "cat"}, nil
	}

	path := writeImage(t)
	for i := 0; i < 3; i++ {
		_, err := c.Classify(context.Background(), "q", path)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}

func TestClassify_ClientErrorIsRetriedOnNextCall(t *testing.T) {
	calls := 0
	c := NewGeminiClassifier(Config{Model: "m", DefaultScore: 10}, zaptest.NewLogger(t))
	c.newClient = func(context.Context, Config) (generator, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("no credentials")
		}
		return &fakeGenerator{answer: "cat"}, nil
	}

	path := writeImage(t)
	_, err := c.Classify(context.Background(), "q", path)
	requireProviderError(t, err)

	_, err = c.Classify(context.Background(), "q", path)
	require.NoError(t, err)
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantLabel string
		wantScore float64
	}{
		{"json with score", `{"label":"cat","score":0.5}`, "cat", 0.5},
		{"json without score", `{"label":"cat"}`, "cat", 10},
		{"json zero score", `{"label":"cat","score":0}`, "cat", 0},
		{"plain text", "tabby cat", "tabby cat", 10},
		{"json without label", `{"score":0.5}`, `{"score":0.5}`, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, score := parseAnswer(tt.text, 10)
			assert.Equal(t, tt.wantLabel, label)
			assert.Equal(t, tt.wantScore, score)
		})
	}
}
