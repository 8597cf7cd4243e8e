package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"medicine_backend/internal/feature/detection/adapters/gemini/dto"
	"medicine_backend/internal/feature/detection/domain"
	"medicine_backend/internal/feature/detection/domain/entity"
	"medicine_backend/internal/feature/detection/usecase"
)

// maxErrorBody caps how much of a failed response body is kept as diagnostic text.
const maxErrorBody = 64 * 1024

// RESTDetector calls the generateContent endpoint directly over HTTPS.
// The API key is passed as the "key" query parameter.
type RESTDetector struct {
	cfg      Config
	client   *http.Client
	apiKey   string
	clusters *clusterSource
}

// RESTDetectorがDetectorを実装していることをコンパイル時に検証します。
var _ usecase.Detector = (*RESTDetector)(nil)

// NewRESTDetector creates a detector bound to one API key.
func NewRESTDetector(cfg Config, client *http.Client, apiKey string) *RESTDetector {
	return &RESTDetector{
		cfg:      cfg.withDefaults(),
		client:   client,
		apiKey:   apiKey,
		clusters: newClusterSource(),
	}
}

// NewRESTDetectorFactory returns a factory producing a RESTDetector per credential,
// all sharing the given HTTP client.
func NewRESTDetectorFactory(cfg Config, client *http.Client) usecase.DetectorFactory {
	return func(credential string) usecase.Detector {
		return NewRESTDetector(cfg, client, credential)
	}
}

// endpoint builds {base}/{version}/models/{model}:generateContent?key=...
func (d *RESTDetector) endpoint() string {
	q := url.Values{}
	q.Set("key", d.apiKey)
	return fmt.Sprintf("%s/%s/models/%s:generateContent?%s",
		strings.TrimRight(d.cfg.BaseURL, "/"),
		d.cfg.APIVersion,
		url.PathEscape(d.cfg.Model),
		q.Encode(),
	)
}

// Detect sends the prompt and the base64 image, then parses the model's JSON answer.
func (d *RESTDetector) Detect(ctx context.Context, image entity.Image) (*entity.DetectionResult, error) {
	payload := dto.GenerateContentRequest{
		Contents: []dto.Content{
			{
				Parts: []dto.Part{
					{Text: Prompt},
					{InlineData: &dto.InlineData{MimeType: image.MIMEType, Data: image.Base64()}},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal generateContent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generateContent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := d.client.Do(req)
	if err != nil {
		// *url.Error embeds the request URL, which carries the key
		return nil, fmt.Errorf("generateContent request failed: %w", redactKey(err, d.apiKey))
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, &domain.ExternalServiceError{StatusCode: res.StatusCode, Body: string(raw)}
	}

	var envelope dto.GenerateContentResponse
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", domain.ErrMissingOutput, err)
	}
	text, ok := envelope.FirstText()
	if !ok || text == "" {
		return nil, domain.ErrMissingOutput
	}

	verdict, err := ParseVerdict(text)
	if err != nil {
		return nil, err
	}
	return verdict.toResult(d.clusters.next()), nil
}

// redactKey strips the API key from transport errors before they are logged or returned.
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := err.Error()
	if !strings.Contains(msg, key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, key, "REDACTED"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
