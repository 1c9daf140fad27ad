// Package httpapi implements the backend collaborators over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/liftbook/liftbook/pkg/backend"
	"github.com/liftbook/liftbook/pkg/models"
	"github.com/liftbook/liftbook/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const maxErrorBodyBytes = 2048

// Client talks to the Liftbook backend. It implements backend.WorkoutAPI,
// backend.ImageUploader and backend.ProfileService.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient creates a backend client. httpClient may be nil to use the
// default client; tracer may be nil to disable spans.
func NewClient(baseURL string, httpClient *http.Client, tracer trace.Tracer) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tracer:     tracer,
	}
}

type createWorkoutResponse struct {
	Workout *models.Workout `json:"workout"`
}

// CreateWorkout posts the submission payload. The dedup token travels both in
// the body and as an Idempotency-Key header so the backend can collapse
// duplicate deliveries into one created entity.
func (c *Client) CreateWorkout(ctx context.Context, token string, req *backend.CreateWorkoutRequest) (*models.Workout, error) {
	ctx, span := c.startSpan(ctx, "backend.create_workout",
		attribute.String(otelhelper.DedupTokenKey, req.DedupToken),
	)
	defer span.End()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workout payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/workouts", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build workout request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Idempotency-Key", req.DedupToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// No response arrived, so this is a connectivity failure and safe to
		// retry with the same token.
		reqErr := backend.NewTransportError("CreateWorkout", err)
		otelhelper.SetError(span, reqErr)

		return nil, reqErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		reqErr := backend.NewStatusError("CreateWorkout", resp.StatusCode, string(body))
		otelhelper.SetError(span, reqErr)

		return nil, reqErr
	}

	var decoded createWorkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, backend.NewStatusError("CreateWorkout", resp.StatusCode, "undecodable response body")
	}

	if decoded.Workout == nil || decoded.Workout.ID == "" {
		return nil, backend.ErrEmptyResponse
	}

	return decoded.Workout, nil
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload sends a local image and returns its durable URL.
func (c *Client) Upload(ctx context.Context, localRef, ownerID string) (string, error) {
	ctx, span := c.startSpan(ctx, "backend.upload_image")
	defer span.End()

	body, err := json.Marshal(map[string]string{"ref": localRef, "owner_id": ownerID})
	if err != nil {
		return "", fmt.Errorf("failed to encode upload payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		reqErr := backend.NewTransportError("Upload", err)
		otelhelper.SetError(span, reqErr)

		return "", reqErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		reqErr := backend.NewStatusError("Upload", resp.StatusCode, string(excerpt))
		otelhelper.SetError(span, reqErr)

		return "", reqErr
	}

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", backend.NewStatusError("Upload", resp.StatusCode, "undecodable response body")
	}

	if decoded.URL == "" {
		return "", backend.NewStatusError("Upload", resp.StatusCode, "response missing image url")
	}

	return decoded.URL, nil
}

// DisplayProfile fetches the display profile for a user. Callers treat
// failures as non-fatal.
func (c *Client) DisplayProfile(ctx context.Context, userID string) (*models.DisplayProfile, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/profiles/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build profile request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, backend.NewTransportError("DisplayProfile", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, backend.NewStatusError("DisplayProfile", resp.StatusCode, "")
	}

	var profile models.DisplayProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, backend.NewStatusError("DisplayProfile", resp.StatusCode, "undecodable response body")
	}

	return &profile, nil
}

func (c *Client) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if c.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}

	return otelhelper.StartSpan(ctx, c.tracer, name, attrs...)
}
