package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/liftbook/liftbook/pkg/backend"
	"github.com/liftbook/liftbook/pkg/models"
	"github.com/liftbook/liftbook/pkg/persistence"
	"github.com/liftbook/liftbook/pkg/persistence/file"
	"github.com/liftbook/liftbook/pkg/submission"
	"github.com/liftbook/liftbook/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessionProvider struct {
	session *backend.Session
}

func (s *stubSessionProvider) CurrentSession(_ context.Context) (*backend.Session, error) {
	return s.session, nil
}

type stubWorkoutAPI struct {
	respond func(req *backend.CreateWorkoutRequest) (*models.Workout, error)
}

func (s *stubWorkoutAPI) CreateWorkout(_ context.Context, _ string, req *backend.CreateWorkoutRequest) (*models.Workout, error) {
	return s.respond(req)
}

func setupTestApp(t *testing.T, api backend.WorkoutAPI) (*fiber.App, persistence.Persistence) {
	t.Helper()

	p := file.NewPersistence(t.TempDir())
	service := submission.NewService(p, nil, nil, nil, slog.Default())
	sessions := &stubSessionProvider{session: &backend.Session{Token: "tok", UserID: "user-1"}}
	processor := submission.NewProcessor(p, sessions, api, nil, slog.Default())
	validate := validator.New(validator.WithRequiredStructEnabled())

	handlers := web.NewAPIHandlers(service, processor, p, validate)

	app := fiber.New()
	app.Get("/healthz", handlers.HealthCheck)

	v1 := app.Group("/v1")
	v1.Get("/status", handlers.GetStatus)
	v1.Post("/workouts", handlers.SubmitWorkout)
	v1.Post("/flush", handlers.Flush)

	return app, p
}

func confirmingAPI() *stubWorkoutAPI {
	return &stubWorkoutAPI{respond: func(req *backend.CreateWorkoutRequest) (*models.Workout, error) {
		return &models.Workout{ID: "workout-1", Title: req.Title}, nil
	}}
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (*http.Response, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, raw
}

func submitBody() web.SubmitWorkoutRequest {
	return web.SubmitWorkoutRequest{
		UserID:     "user-1",
		Title:      "Push Day",
		Notes:      "Bench 3x5 @100",
		WeightUnit: "kg",
	}
}

func TestAPIHandlers_SubmitWorkout(t *testing.T) {
	t.Parallel()

	app, p := setupTestApp(t, confirmingAPI())

	resp, raw := postJSON(t, app, "/v1/workouts", submitBody())
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body struct {
		DedupToken  string              `json:"dedup_token"`
		Placeholder *models.Placeholder `json:"placeholder"`
		Replaced    bool                `json:"replaced"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.NotEmpty(t, body.DedupToken)
	assert.False(t, body.Replaced)
	require.NotNil(t, body.Placeholder)
	assert.True(t, body.Placeholder.IsPending)

	entry, err := p.OutboxRepository().Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, body.DedupToken, entry.DedupToken)
}

func TestAPIHandlers_SubmitWorkout_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body any
	}{
		{
			name: "missing title",
			body: map[string]any{"user_id": "user-1", "weight_unit": "kg", "notes": "hi"},
		},
		{
			name: "bad weight unit",
			body: map[string]any{"user_id": "user-1", "title": "Push", "weight_unit": "stone", "notes": "hi"},
		},
		{
			name: "numeric title rejected by schema",
			body: map[string]any{"user_id": "user-1", "title": 42, "weight_unit": "kg", "notes": "hi"},
		},
		{
			name: "blank content",
			body: map[string]any{"user_id": "user-1", "title": "Push", "weight_unit": "kg", "notes": "   "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app, p := setupTestApp(t, confirmingAPI())

			resp, raw := postJSON(t, app, "/v1/workouts", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, string(raw), "validation_error")

			entry, err := p.OutboxRepository().Get(context.Background())
			require.NoError(t, err)
			assert.Nil(t, entry)
		})
	}
}

func TestAPIHandlers_SubmitWorkout_WithFlush(t *testing.T) {
	t.Parallel()

	app, p := setupTestApp(t, confirmingAPI())

	resp, raw := postJSON(t, app, "/v1/workouts?flush=true", submitBody())
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body struct {
		Flush web.FlushResponse `json:"flush"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, string(submission.StatusSuccess), body.Flush.Status)
	assert.Equal(t, "workout-1", body.Flush.WorkoutID)

	entry, err := p.OutboxRepository().Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestAPIHandlers_Flush(t *testing.T) {
	t.Parallel()

	t.Run("empty outbox", func(t *testing.T) {
		t.Parallel()

		app, _ := setupTestApp(t, confirmingAPI())

		resp, raw := postJSON(t, app, "/v1/flush", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body web.FlushResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, string(submission.StatusNone), body.Status)
	})

	t.Run("offline keeps entry", func(t *testing.T) {
		t.Parallel()

		offlineAPI := &stubWorkoutAPI{respond: func(_ *backend.CreateWorkoutRequest) (*models.Workout, error) {
			return nil, backend.NewTransportError("CreateWorkout", errors.New("connection refused"))
		}}
		app, p := setupTestApp(t, offlineAPI)

		_, _ = postJSON(t, app, "/v1/workouts", submitBody())

		resp, raw := postJSON(t, app, "/v1/flush", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body web.FlushResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, string(submission.StatusOffline), body.Status)
		assert.Contains(t, body.Error, "connection refused")

		entry, err := p.OutboxRepository().Get(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, entry)
	})
}

func TestAPIHandlers_GetStatus(t *testing.T) {
	t.Parallel()

	app, _ := setupTestApp(t, confirmingAPI())

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var status web.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.HasDraft)
	assert.Nil(t, status.Pending)
	assert.Nil(t, status.Placeholder)

	_, _ = postJSON(t, app, "/v1/workouts", submitBody())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	require.NoError(t, err)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	require.NotNil(t, status.Pending)
	assert.Equal(t, "Push Day", status.Pending.Title)
	require.NotNil(t, status.Placeholder)
	assert.True(t, status.Placeholder.IsPending)
}

func TestAPIHandlers_HealthCheck(t *testing.T) {
	t.Parallel()

	app, _ := setupTestApp(t, confirmingAPI())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
