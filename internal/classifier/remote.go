package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/prescripto/health-recommender/internal/domain"
)

// RemoteClassifier calls an external inference service over HTTP. The core
// treats the classifier as an opaque collaborator and adds no resilience of
// its own, so the circuit breaker and rate limiter live here, on the caller
// side of that contract.
type RemoteClassifier struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	logger  *logrus.Logger
}

type predictRequest struct {
	Vector []float32 `json:"vector"`
}

type predictResponse struct {
	Disease string `json:"disease"`
}

// NewRemoteClassifier creates an HTTP inference client.
func NewRemoteClassifier(cfg domain.RemoteClassifierConfig, logger *logrus.Logger) (*RemoteClassifier, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote classifier base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "inference-service",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Classifier circuit breaker state changed")
		},
	})

	return &RemoteClassifier{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: breaker,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}, nil
}

// Predict sends the indicator vector to the inference service and returns
// the single disease label it responds with.
func (c *RemoteClassifier) Predict(ctx context.Context, vector []float32) (domain.DiseaseLabel, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doPredict(ctx, vector)
	})
	if err != nil {
		return "", fmt.Errorf("remote classifier: %w", err)
	}
	return result.(domain.DiseaseLabel), nil
}

func (c *RemoteClassifier) doPredict(ctx context.Context, vector []float32) (domain.DiseaseLabel, error) {
	body, err := json.Marshal(predictRequest{Vector: vector})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predict", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("inference service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding inference response: %w", err)
	}
	if out.Disease == "" {
		return "", fmt.Errorf("inference service returned an empty label")
	}
	return domain.DiseaseLabel(out.Disease), nil
}

// Close is a no-op for the HTTP client.
func (c *RemoteClassifier) Close() error {
	return nil
}
