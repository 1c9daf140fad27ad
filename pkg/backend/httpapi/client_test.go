package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/liftbook/liftbook/pkg/backend"
	"github.com/liftbook/liftbook/pkg/backend/httpapi"
	"github.com/liftbook/liftbook/pkg/models"
	"github.com/liftbook/liftbook/pkg/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRequest() *backend.CreateWorkoutRequest {
	return &backend.CreateWorkoutRequest{
		Title:       "Push Day",
		Notes:       "Bench 3x5 @100",
		WeightUnit:  models.WeightUnitKilograms,
		DedupToken:  "token-1",
		PerformedAt: time.Date(2026, 2, 10, 6, 45, 0, 0, time.UTC),
	}
}

func TestClient_CreateWorkout_Success(t *testing.T) {
	t.Parallel()

	var gotAuth, gotIdempotency string

	var gotBody backend.CreateWorkoutRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/workouts", r.URL.Path)

		gotAuth = r.Header.Get("Authorization")
		gotIdempotency = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"workout": models.Workout{ID: "workout-123", Title: gotBody.Title},
		})
	}))
	defer server.Close()

	client := httpapi.NewClient(server.URL, nil, nil)

	workout, err := client.CreateWorkout(context.Background(), "secret-token", createRequest())
	require.NoError(t, err)
	assert.Equal(t, "workout-123", workout.ID)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "token-1", gotIdempotency)
	assert.Equal(t, "token-1", gotBody.DedupToken)
}

func TestClient_CreateWorkout_TransportErrorIsTransient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close() // Refuse connections from now on.

	client := httpapi.NewClient(server.URL, nil, nil)

	_, err := client.CreateWorkout(context.Background(), "secret-token", createRequest())
	require.Error(t, err)

	var reqErr *backend.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.True(t, reqErr.IsTransient())
	assert.Equal(t, submission.ClassOffline, submission.Classify(err))
}

func TestClient_CreateWorkout_StatusErrorIsTerminal(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"unparseable workout"}`))
	}))
	defer server.Close()

	client := httpapi.NewClient(server.URL, nil, nil)

	_, err := client.CreateWorkout(context.Background(), "secret-token", createRequest())
	require.Error(t, err)

	var reqErr *backend.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.False(t, reqErr.IsTransient())
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.StatusCode)
	assert.Equal(t, submission.ClassTerminal, submission.Classify(err))
}

func TestClient_CreateWorkout_MissingEntityRejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := httpapi.NewClient(server.URL, nil, nil)

	_, err := client.CreateWorkout(context.Background(), "secret-token", createRequest())
	assert.ErrorIs(t, err, backend.ErrEmptyResponse)
}

func TestClient_Upload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/images", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/abc.jpg"}`))
	}))
	defer server.Close()

	client := httpapi.NewClient(server.URL, nil, nil)

	url, err := client.Upload(context.Background(), "file:///tmp/photo.jpg", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/abc.jpg", url)
}

func TestClient_Upload_FailureStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInsufficientStorage)
	}))
	defer server.Close()

	client := httpapi.NewClient(server.URL, nil, nil)

	_, err := client.Upload(context.Background(), "file:///tmp/photo.jpg", "user-1")
	require.Error(t, err)

	var reqErr *backend.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusInsufficientStorage, reqErr.StatusCode)
}

func TestClient_DisplayProfile(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/profiles/user-1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"display_name":"Sam Carter","avatar_url":"https://cdn.example.com/avatar.png"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := httpapi.NewClient(server.URL, nil, nil)

	profile, err := client.DisplayProfile(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Sam Carter", profile.DisplayName)

	missing, err := client.DisplayProfile(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
