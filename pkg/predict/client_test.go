package predict

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestClient_PostsJSONAndDecodes(t *testing.T) {
	var (
		gotMethod string
		gotType   string
		gotBody   map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_, _ = w.Write([]byte(`{"churn_prediction": 1}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Predict(context.Background(), map[string]any{"tenure": 24, "Contract": "Month-to-month"})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if !result.Churn() {
		t.Fatalf("expected churn result, got %+v", result)
	}
	if gotMethod != http.MethodPost || gotType != "application/json" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotType)
	}
	want := map[string]any{"tenure": float64(24), "Contract": "Month-to-month"}
	if diff := cmp.Diff(want, gotBody); diff != "" {
		t.Fatalf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Predict(context.Background(), map[string]any{})
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 StatusError, got %#v", err)
	}
	if statusErr.Body != "model unavailable" {
		t.Fatalf("unexpected body snippet %q", statusErr.Body)
	}
	if Kind(err) != FailureStatus {
		t.Fatalf("kind = %q", Kind(err))
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).Predict(context.Background(), map[string]any{})
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if Kind(err) != FailureNetwork {
		t.Fatalf("kind = %q", Kind(err))
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewClient(server.URL, WithTimeout(20*time.Millisecond)).Predict(context.Background(), map[string]any{})
	if !errors.Is(err, ErrNetwork) || !IsCanceled(err) {
		t.Fatalf("expected deadline network error, got %v", err)
	}
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"churn_prediction": 0}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRateLimit(0.001))
	if _, err := client.Predict(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("first predict: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := client.Predict(ctx, map[string]any{})
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected throttled request to fail, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		want    Result
		wantErr bool
	}{
		{name: "stay", body: `{"churn_prediction":0}`, want: Result{ChurnPrediction: 0}},
		{name: "churn with extras", body: `{"churn_prediction":1,"probability":0.8}`, want: Result{ChurnPrediction: 1}},
		{name: "missing", body: `{"prediction":1}`, wantErr: true},
		{name: "string", body: `{"churn_prediction":"1"}`, wantErr: true},
		{name: "fraction", body: `{"churn_prediction":0.5}`, wantErr: true},
		{name: "out of range", body: `{"churn_prediction":2}`, wantErr: true},
		{name: "null", body: `null`, wantErr: true},
		{name: "array", body: `[1]`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
		{name: "trailing newline", body: "{\"churn_prediction\":1}\n", want: Result{ChurnPrediction: 1}},
		{name: "trailing text", body: `{"churn_prediction":1} trailing`, wantErr: true},
		{name: "second object", body: `{"churn_prediction":1}{"churn_prediction":0}`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode([]byte(tc.body))
			if tc.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("expected ErrMalformed, got %v", err)
				}
				if Kind(err) != FailureMalformed {
					t.Fatalf("kind = %q", Kind(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("decode = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNewClient_DefaultEndpoint(t *testing.T) {
	if got := NewClient("  ").Endpoint(); got != DefaultEndpoint {
		t.Fatalf("endpoint = %q", got)
	}
}
