package classifier

import (
	"Lote-Tracker/domain"
	"Lote-Tracker/internal/metrics"
	"Lote-Tracker/internal/utils"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sony/gobreaker/v2"
)

const (
	formFieldFiles   = "files"
	maxErrorBodySize = 512
)

type (
	// ClassifierClient sends batch images to the YOLO classification service.
	ClassifierClient interface {
		Classify(ctx context.Context, images []domain.ImageFile) ([]domain.ClassificationResult, error)
	}

	classifierClient struct {
		url        string
		httpClient *http.Client
		breaker    *gobreaker.CircuitBreaker[[]domain.ClassificationResult]
		metrics    *metrics.Metrics
	}
)

func NewClassifierClient(m *metrics.Metrics) ClassifierClient {
	timeout := time.Duration(utils.GetConfigInt("CLASSIFIER_TIMEOUT_SECONDS", 0)) * time.Second
	return newClassifierClient(utils.GetConfig("CLASSIFIER_URL"), timeout, m)
}

// newClassifierClient builds a client against url. A zero timeout leaves the
// request bounded only by its context.
func newClassifierClient(url string, timeout time.Duration, m *metrics.Metrics) *classifierClient {
	settings := gobreaker.Settings{
		Name:        "classifier",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
	}

	return &classifierClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[[]domain.ClassificationResult](settings),
		metrics:    m,
	}
}

// Classify posts all images in a single multipart request and returns one
// result per image in the order the service reports them.
func (c *classifierClient) Classify(ctx context.Context, images []domain.ImageFile) ([]domain.ClassificationResult, error) {
	start := time.Now()
	results, err := c.breaker.Execute(func() ([]domain.ClassificationResult, error) {
		return c.classify(ctx, images)
	})
	c.metrics.ObserveClassifier(time.Since(start), err)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	return results, err
}

func (c *classifierClient) classify(ctx context.Context, images []domain.ImageFile) ([]domain.ClassificationResult, error) {
	body, contentType, err := buildForm(images)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrClassifierResponse, err)
	}

	if resp.StatusCode != http.StatusOK {
		if len(respBody) > maxErrorBodySize {
			respBody = respBody[:maxErrorBodySize]
		}
		return nil, fmt.Errorf("%w: %s - %s", domain.ErrClassifierResponse, resp.Status, string(respBody))
	}

	return DecodeResults(respBody)
}

func buildForm(images []domain.ImageFile) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for i, img := range images {
		filename := img.Nombre
		if filename == "" {
			filename = fmt.Sprintf("img_%d.jpg", i)
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, formFieldFiles, filename))
		header.Set("Content-Type", "image/jpeg")

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create form part: %w", err)
		}
		if _, err := part.Write(img.Content); err != nil {
			return nil, "", fmt.Errorf("write form part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

// DecodeResults accepts either {"results": [...]} or a bare single result
// object.
func DecodeResults(data []byte) ([]domain.ClassificationResult, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierResponse, err)
	}
	if envelope == nil {
		return nil, fmt.Errorf("%w: empty body", domain.ErrClassifierResponse)
	}

	if raw, ok := envelope["results"]; ok {
		var results []domain.ClassificationResult
		if err := json.Unmarshal(raw, &results); err != nil {
			return nil, fmt.Errorf("%w: results: %v", domain.ErrClassifierResponse, err)
		}
		return results, nil
	}

	var single domain.ClassificationResult
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassifierResponse, err)
	}
	return []domain.ClassificationResult{single}, nil
}
