package submission_test

import (
	"context"
	"errors"
	"sync"

	"github.com/liftbook/liftbook/pkg/backend"
	"github.com/liftbook/liftbook/pkg/eventbus"
	"github.com/liftbook/liftbook/pkg/models"
)

type fakeSessionProvider struct {
	session *backend.Session
	err     error
}

func (f *fakeSessionProvider) CurrentSession(_ context.Context) (*backend.Session, error) {
	return f.session, f.err
}

type fakeWorkoutAPI struct {
	mu      sync.Mutex
	calls   []*backend.CreateWorkoutRequest
	tokens  []string
	respond func(req *backend.CreateWorkoutRequest) (*models.Workout, error)
	entered chan struct{}
	release chan struct{}
}

func (f *fakeWorkoutAPI) CreateWorkout(_ context.Context, token string, req *backend.CreateWorkoutRequest) (*models.Workout, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.tokens = append(f.tokens, token)
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}

	if f.release != nil {
		<-f.release
	}

	return f.respond(req)
}

func (f *fakeWorkoutAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

func (f *fakeWorkoutAPI) lastCall() *backend.CreateWorkoutRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.calls) == 0 {
		return nil
	}

	return f.calls[len(f.calls)-1]
}

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) Upload(_ context.Context, _, _ string) (string, error) {
	f.calls++

	return f.url, f.err
}

type fakeProfiles struct {
	profile *models.DisplayProfile
	err     error
}

func (f *fakeProfiles) DisplayProfile(_ context.Context, _ string) (*models.DisplayProfile, error) {
	return f.profile, f.err
}

// failingPublisher always errors; the pipeline must swallow it.
type failingPublisher struct {
	published int
}

func (f *failingPublisher) Publish(_ context.Context, _ string, _ eventbus.Event) error {
	f.published++

	return errors.New("event bus unavailable")
}

// recordingPublisher collects events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (r *recordingPublisher) Publish(_ context.Context, _ string, event eventbus.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)

	return nil
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, string(e.GetType()))
	}

	return out
}
