package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/auth/credentials"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"image-classifier-service/internal/domain/classification"
	apperrors "image-classifier-service/pkg/errors"
	"image-classifier-service/pkg/logger"
)

// FailureMessage is the message of every classification failure.
const FailureMessage = "Failed to classify image"

const (
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
	instruction        = "Classify the main subject of this image in the context of the question. " +
		"Answer with a short label and a confidence score between 0 and 1."
)

// Config holds the settings of the Gemini classifier.
type Config struct {
	CredentialsFile string
	ProjectID       string
	Location        string
	Model           string
	DefaultScore    float64
	Timeout         time.Duration
}

// generator is the slice of the genai API the classifier uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClassifier asks a Gemini model on Vertex AI to label an image.
// The client is built on first use so the service starts without credentials.
type GeminiClassifier struct {
	cfg Config
	log *zap.Logger

	mu        sync.Mutex
	gen       generator
	newClient func(ctx context.Context, cfg Config) (generator, error)
}

// NewGeminiClassifier creates a classifier. No network calls are made.
func NewGeminiClassifier(cfg Config, log *zap.Logger) *GeminiClassifier {
	return &GeminiClassifier{
		cfg:       cfg,
		log:       log,
		newClient: newVertexClient,
	}
}

func newVertexClient(ctx context.Context, cfg Config) (generator, error) {
	if cfg.CredentialsFile == "" {
		return nil, errors.New("credentials file is not configured")
	}
	if _, err := os.Stat(cfg.CredentialsFile); err != nil {
		return nil, fmt.Errorf("credentials file unavailable: %w", err)
	}

	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes:          []string{cloudPlatformScope},
		CredentialsFile: cfg.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	project := cfg.ProjectID
	if project == "" {
		if project, err = creds.ProjectID(ctx); err != nil {
			return nil, fmt.Errorf("failed to resolve project id: %w", err)
		}
		if project == "" {
			return nil, errors.New("project id is not configured")
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:     genai.BackendVertexAI,
		Project:     project,
		Location:    cfg.Location,
		Credentials: creds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return client.Models, nil
}

func (c *GeminiClassifier) models(ctx context.Context) (generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != nil {
		return c.gen, nil
	}
	gen, err := c.newClient(ctx, c.cfg)
	if err != nil {
		return nil, err
	}
	c.gen = gen
	return gen, nil
}

// Classify labels the image at imagePath. Every failure is returned as an
// *errors.ProviderError; the call is attempted once.
func (c *GeminiClassifier) Classify(ctx context.Context, question, imagePath string) (*classification.Outcome, error) {
	log := logger.WithContext(ctx, c.log).With(zap.String("image_path", imagePath))

	outcome, err := c.classify(ctx, question, imagePath)
	if err != nil {
		log.Warn("classification failed", zap.Error(err))
		return nil, apperrors.NewProviderError(FailureMessage, err)
	}

	log.Info("image classified",
		zap.String("classification", outcome.Classification),
		zap.Float64("score", outcome.Score),
	)
	return outcome, nil
}

func (c *GeminiClassifier) classify(ctx context.Context, question, imagePath string) (*classification.Outcome, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	gen, err := c.models(ctx)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{genai.NewPartFromText(instruction)}
	if question != "" {
		parts = append(parts, genai.NewPartFromText(question))
	}
	parts = append(parts, genai.NewPartFromBytes(data, mimetype.Detect(data).String()))

	resp, err := gen.GenerateContent(ctx, c.cfg.Model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   answerSchema,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, errors.New("model returned no answer")
	}

	label, score := parseAnswer(text, c.cfg.DefaultScore)
	if label == "" {
		return nil, errors.New("model returned an empty label")
	}

	return &classification.Outcome{
		Classification: label,
		Score:          score,
		ImagePath:      imagePath,
	}, nil
}

var answerSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"label": {Type: genai.TypeString},
		"score": {Type: genai.TypeNumber},
	},
	Required: []string{"label"},
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// parseAnswer reads a {label, score} JSON answer. Anything else is taken
// as a plain-text label with defaultScore.
func parseAnswer(text string, defaultScore float64) (string, float64) {
	var answer struct {
		Label string   `json:"label"`
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(text), &answer); err == nil && answer.Label != "" {
		if answer.Score == nil {
			return strings.TrimSpace(answer.Label), defaultScore
		}
		return strings.TrimSpace(answer.Label), *answer.Score
	}
	return strings.TrimSpace(text), defaultScore
}
