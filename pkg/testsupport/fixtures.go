package testsupport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	churnform "github.com/goliatone/go-churnform"
	pkgmodel "github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/orchestrator"
)

// ChurnForm builds the decorated churn form from the embedded schema.
func ChurnForm(t testing.TB, options ...orchestrator.Option) pkgmodel.FormModel {
	t.Helper()

	form, err := churnform.LoadForm(context.Background(), options...)
	if err != nil {
		t.Fatalf("load churn form: %v", err)
	}
	return form
}

// CompactForm builds the churn form with the compact preset.
func CompactForm(t testing.TB) pkgmodel.FormModel {
	t.Helper()
	return ChurnForm(t, orchestrator.WithPreset("compact"))
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// PredictionServer is a fake classifier endpoint that records request
// bodies.
type PredictionServer struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   []map[string]any
	status   int
	response string
	gate     chan struct{}
}

// NewPredictionServer starts a classifier that answers status/response to
// every request. It is closed when the test ends.
func NewPredictionServer(t testing.TB, status int, response string) *PredictionServer {
	t.Helper()

	ps := &PredictionServer{status: status, response: response}
	ps.Server = httptest.NewServer(http.HandlerFunc(ps.serve))
	t.Cleanup(func() {
		ps.Release()
		ps.Close()
	})
	return ps
}

// Hold makes the server wait for Release before answering.
func (ps *PredictionServer) Hold() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.gate = make(chan struct{})
}

// Release unblocks held requests.
func (ps *PredictionServer) Release() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.gate != nil {
		close(ps.gate)
		ps.gate = nil
	}
}

// Respond changes the reply for subsequent requests.
func (ps *PredictionServer) Respond(status int, response string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.status, ps.response = status, response
}

// Bodies returns the decoded request bodies received so far.
func (ps *PredictionServer) Bodies() []map[string]any {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return append([]map[string]any(nil), ps.bodies...)
}

func (ps *PredictionServer) serve(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(data, &body)

	ps.mu.Lock()
	ps.bodies = append(ps.bodies, body)
	gate := ps.gate
	status, response := ps.status, ps.response
	ps.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, response)
}
