package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"medicine_backend/internal/feature/detection/domain"
	"medicine_backend/internal/feature/detection/domain/entity"
	"medicine_backend/internal/feature/detection/usecase"
)

// SDKDetector queries the same model through the official genai client.
// Prompt, parsing and normalization are shared with RESTDetector.
type SDKDetector struct {
	cfg        Config
	httpClient *http.Client
	apiKey     string
	clusters   *clusterSource
}

// SDKDetectorがDetectorを実装していることをコンパイル時に検証します。
var _ usecase.Detector = (*SDKDetector)(nil)

// NewSDKDetector creates a detector bound to one API key.
func NewSDKDetector(cfg Config, httpClient *http.Client, apiKey string) *SDKDetector {
	return &SDKDetector{
		cfg:        cfg.withDefaults(),
		httpClient: httpClient,
		apiKey:     apiKey,
		clusters:   newClusterSource(),
	}
}

// NewSDKDetectorFactory returns a factory producing an SDKDetector per credential.
func NewSDKDetectorFactory(cfg Config, httpClient *http.Client) usecase.DetectorFactory {
	return func(credential string) usecase.Detector {
		return NewSDKDetector(cfg, httpClient, credential)
	}
}

// newClient builds a Gemini API client for this detector's key.
func (d *SDKDetector) newClient(ctx context.Context) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     d.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: d.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(d.cfg.BaseURL, "/") + "/",
			APIVersion: d.cfg.APIVersion,
		},
	})
}

// Detect sends the prompt and inline image through genai and parses the answer.
func (d *SDKDetector) Detect(ctx context.Context, image entity.Image) (*entity.DetectionResult, error) {
	client, err := d.newClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(Prompt),
		genai.NewPartFromBytes(image.Data, image.MIMEType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := client.Models.GenerateContent(ctx, d.cfg.Model, contents, nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &domain.ExternalServiceError{StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return nil, fmt.Errorf("gemini API request failed: %w", err)
	}

	text, ok := firstText(resp)
	if !ok {
		return nil, domain.ErrMissingOutput
	}

	verdict, err := ParseVerdict(text)
	if err != nil {
		return nil, err
	}
	return verdict.toResult(d.clusters.next()), nil
}

// firstText mirrors dto.GenerateContentResponse.FirstText for SDK responses.
func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	c := resp.Candidates[0].Content
	if c == nil || len(c.Parts) == 0 || c.Parts[0] == nil || c.Parts[0].Text == "" {
		return "", false
	}
	return c.Parts[0].Text, true
}
