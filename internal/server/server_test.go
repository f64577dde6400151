package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	churnform "github.com/goliatone/go-churnform"
	"github.com/goliatone/go-churnform/internal/metrics"
	"github.com/goliatone/go-churnform/pkg/i18n"
	"github.com/goliatone/go-churnform/pkg/lifecycle"
	"github.com/goliatone/go-churnform/pkg/predict"
	"github.com/goliatone/go-churnform/pkg/testsupport"
)

var csrfPattern = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

type harness struct {
	t          *testing.T
	server     *Server
	http       *httptest.Server
	client     *http.Client
	prediction *testsupport.PredictionServer
	metrics    *metrics.Metrics
}

func newHarness(t *testing.T, status int, response string, options ...Option) *harness {
	t.Helper()
	prediction := testsupport.NewPredictionServer(t, status, response)
	m := metrics.New()

	catalog, err := i18n.Default()
	require.NoError(t, err)

	options = append([]Option{WithMetrics(m), WithTranslator(catalog)}, options...)
	srv, err := New(testsupport.ChurnForm(t), predict.NewClient(prediction.URL), churnform.NewOrchestrator(), options...)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &harness{
		t:          t,
		server:     srv,
		http:       ts,
		client:     &http.Client{Jar: jar, Timeout: 10 * time.Second},
		prediction: prediction,
		metrics:    m,
	}
}

func (h *harness) do(method, path string, body io.Reader, contentType string) (*http.Response, string) {
	h.t.Helper()
	req, err := http.NewRequest(method, h.http.URL+path, body)
	require.NoError(h.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp, string(data)
}

func (h *harness) page() (string, string) {
	h.t.Helper()
	resp, body := h.do(http.MethodGet, "/", nil, "")
	require.Equal(h.t, http.StatusOK, resp.StatusCode)
	match := csrfPattern.FindStringSubmatch(body)
	require.Len(h.t, match, 2, "csrf token not rendered")
	return body, match[1]
}

func (h *harness) post(values url.Values) (*http.Response, string) {
	h.t.Helper()
	return h.do(http.MethodPost, "/", strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func (h *harness) state(method, path string, body string) (int, StateResponse) {
	h.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	resp, data := h.do(method, path, reader, "application/json")
	var state StateResponse
	if resp.StatusCode < 300 || resp.StatusCode == http.StatusConflict {
		require.NoError(h.t, json.Unmarshal([]byte(data), &state), data)
	}
	return resp.StatusCode, state
}

func TestHealth(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 0}`)
	resp, body := h.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestPage_RendersIdleForm(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 0}`)
	body, token := h.page()

	assert.NotEmpty(t, token)
	assert.Contains(t, body, `data-phase="idle"`)
	assert.Contains(t, body, `name="tenure" value="24"`)
	assert.NotContains(t, body, `role="status"`)
	assert.Equal(t, 1, h.server.Sessions().Len())

	_, again := h.page()
	assert.Equal(t, token, again, "session should be reused")
	assert.Equal(t, 1, h.server.Sessions().Len())
}

func TestPage_Localized(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 0}`)
	resp, body := h.do(http.MethodGet, "/?lang=es", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<html lang="es">`)
	assert.Contains(t, body, "Predecir abandono")
	assert.Contains(t, body, "Antigüedad (meses)")
}

func TestPage_SubmitShowsBanner(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 1}`)
	_, token := h.page()

	resp, body := h.post(url.Values{CSRFField: {token}, "tenure": {"5"}, "Contract": {"One year"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<p class="result danger" role="status">Result: This customer is LIKELY TO CHURN.</p>`)
	assert.Contains(t, body, `data-phase="succeeded"`)

	bodies := h.prediction.Bodies()
	require.Len(t, bodies, 1)
	assert.Equal(t, float64(5), bodies[0]["tenure"])
	assert.Equal(t, "One year", bodies[0]["Contract"])
	assert.Len(t, bodies[0], 19)
}

func TestPage_SubmitFailureShowsAlert(t *testing.T) {
	h := newHarness(t, http.StatusInternalServerError, `{"error":"model not loaded"}`)
	_, token := h.page()

	resp, body := h.post(url.Values{CSRFField: {token}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `role="alert">An error occurred. Please check the logs for details.</div>`)
	assert.NotContains(t, body, `role="status"`)
}

func TestPage_RejectsBadToken(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 1}`)
	h.page()

	resp, body := h.post(url.Values{CSRFField: {"forged"}, "tenure": {"7"}, "Contract": {"Two year"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, MessageInvalidToken)
	assert.Empty(t, h.prediction.Bodies())

	status, state := h.state(http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(24), state.Values["tenure"])
	assert.Equal(t, "Month-to-month", state.Values["Contract"])
	assert.Equal(t, lifecycle.Idle, state.Phase)
}

func TestPage_InvalidValue(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 1}`)
	_, token := h.page()

	resp, body := h.post(url.Values{CSRFField: {token}, "tenure": {"-3"}, "gender": {"Other"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "has-error")
	assert.Empty(t, h.prediction.Bodies())
}

func TestPage_ExpiredSession(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 1}`)

	resp, body := h.post(url.Values{CSRFField: {"stale"}, "tenure": {"7"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, body, MessageSessionExpired)
	assert.Contains(t, body, `name="tenure" value="7"`)
	assert.Empty(t, h.prediction.Bodies())
}

func TestAPI_FieldsAndSubmit(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 0}`)

	status, state := h.state(http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, lifecycle.Idle, state.Phase)
	assert.Equal(t, "Predict Churn", state.ButtonLabel)

	status, state = h.state(http.MethodPut, "/api/fields/tenure", `{"value": 12}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(12), state.Values["tenure"])

	status, _ = h.state(http.MethodPut, "/api/fields/nope", `{"value": 1}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = h.state(http.MethodPut, "/api/fields/Contract", `{"value": "Weekly"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = h.state(http.MethodPut, "/api/fields/tenure", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, state = h.state(http.MethodPost, "/api/submit", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, lifecycle.Succeeded, state.Phase)
	require.NotNil(t, state.Result)
	assert.Equal(t, 0, *state.Result)
	assert.True(t, state.Banner.Visible)
	assert.Equal(t, "Result: This customer is LIKELY TO STAY.", state.Banner.Message)

	bodies := h.prediction.Bodies()
	require.Len(t, bodies, 1)
	assert.Equal(t, float64(12), bodies[0]["tenure"])
}

func TestAPI_SubmitFailure(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"unexpected": true}`)

	status, state := h.state(http.MethodPost, "/api/submit", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, lifecycle.Failed, state.Phase)
	assert.Equal(t, predict.FailureMalformed, state.Failure)
	assert.Equal(t, lifecycle.DefaultAlertMessage, state.Alert)
	assert.Nil(t, state.Result)
	assert.False(t, state.Banner.Visible)
}

func TestAPI_SubmitWhileBusy(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 1}`)
	h.state(http.MethodGet, "/api/state", "")
	h.prediction.Hold()

	done := make(chan int, 1)
	go func() {
		req, err := http.NewRequest(http.MethodPost, h.http.URL+"/api/submit", nil)
		if err != nil {
			done <- 0
			return
		}
		resp, err := h.client.Do(req)
		if err != nil {
			done <- 0
			return
		}
		resp.Body.Close()
		done <- resp.StatusCode
	}()

	require.Eventually(t, func() bool { return len(h.prediction.Bodies()) == 1 }, 5*time.Second, 5*time.Millisecond)

	status, state := h.state(http.MethodPost, "/api/submit", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.True(t, state.Busy)
	assert.Equal(t, "Predicting...", state.ButtonLabel)

	h.prediction.Release()
	select {
	case status := <-done:
		assert.Equal(t, http.StatusOK, status)
	case <-time.After(5 * time.Second):
		t.Fatal("first submission did not complete")
	}
	assert.Len(t, h.prediction.Bodies(), 1)
}

func TestAssetsAndMetrics(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 1}`)

	resp, css := h.do(http.MethodGet, "/assets/churnform.css", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, css, ".churnform")

	h.state(http.MethodPost, "/api/submit", "")

	resp, body := h.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `churnform_predictions_total{outcome="churn"} 1`)
	assert.Contains(t, body, "churnform_sessions_active 1")
}

func TestCORS(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 1}`, WithCORSOrigins("http://dashboard.local"))

	req, err := http.NewRequest(http.MethodOptions, h.http.URL+"/api/state", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://dashboard.local", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServe_GracefulShutdown(t *testing.T) {
	h := newHarness(t, http.StatusOK, `{"churn_prediction": 1}`)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- h.server.serveListener(ctx, listener, time.Second)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/healthz", addr))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	form := testsupport.ChurnForm(t)
	_, err := New(form, nil, churnform.NewOrchestrator())
	assert.Error(t, err)
	_, err = New(form, predict.NewClient(""), nil)
	assert.Error(t, err)
	assert.Equal(t, ":8080", Addr(8080))
}
