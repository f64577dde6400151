package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-churnform/pkg/formstate"
	pkgmodel "github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/predict"
)

// DefaultAlertMessage is shown for every failed prediction.
const DefaultAlertMessage = "An error occurred. Please check the logs for details."

// ErrBusy is returned by Submit while another submission is in flight.
var ErrBusy = errors.New("lifecycle: submission already in flight")

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Values      map[string]any      `json:"values"`
	Phase       Phase               `json:"phase"`
	Result      *int                `json:"result,omitempty"`
	Alert       string              `json:"alert,omitempty"`
	Failure     predict.FailureKind `json:"failure,omitempty"`
	Attempt     int                 `json:"attempt"`
	LastRequest json.RawMessage     `json:"lastRequest,omitempty"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// Busy reports whether a request is in flight.
func (s Snapshot) Busy() bool {
	return s.Phase == Submitting
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithNotifier registers the alert sink.
func WithNotifier(notifier Notifier) Option {
	return func(c *Controller) {
		c.notifier = notifier
	}
}

// WithObserver registers a submission observer.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAlertMessage overrides the failure notice text.
func WithAlertMessage(message string) Option {
	return func(c *Controller) {
		if message != "" {
			c.alertMessage = message
		}
	}
}

// Controller owns one form's values and request lifecycle.
type Controller struct {
	predictor    predict.Predictor
	logger       *zap.Logger
	notifier     Notifier
	observer     Observer
	now          func() time.Time
	alertMessage string

	mu          sync.Mutex
	state       *formstate.State
	phase       Phase
	result      *int
	alert       string
	failure     predict.FailureKind
	attempt     int
	lastRequest json.RawMessage
	updatedAt   time.Time
}

// New seeds a controller from the form defaults.
func New(form pkgmodel.FormModel, predictor predict.Predictor, options ...Option) (*Controller, error) {
	if predictor == nil {
		return nil, errors.New("lifecycle: predictor is required")
	}
	state, err := formstate.New(form)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		predictor:    predictor,
		logger:       zap.NewNop(),
		observer:     nopObserver{},
		now:          time.Now,
		alertMessage: DefaultAlertMessage,
		state:        state,
		phase:        Idle,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	c.updatedAt = c.now()
	return c, nil
}

// SetField replaces one value. Edits made while a request is in flight do
// not affect the body already sent.
func (c *Controller) SetField(name string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.state.SetField(name, value)
	if err != nil {
		return err
	}
	c.state = next
	c.updatedAt = c.now()
	return nil
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == Submitting
}

// Form returns the form model the controller was built from.
func (c *Controller) Form() pkgmodel.FormModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Form()
}

// Submit sends the current values to the predictor and waits for the reply.
// Prediction failures are recorded on the controller and reported through
// the notifier; the returned error is nil for every prediction outcome.
func (c *Controller) Submit(ctx context.Context) (Snapshot, error) {
	if ctx == nil {
		return Snapshot{}, errors.New("lifecycle: context is required")
	}

	c.mu.Lock()
	if c.phase == Submitting {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.observer.Rejected()
		return snap, ErrBusy
	}

	body, err := json.Marshal(c.state)
	if err != nil {
		c.mu.Unlock()
		return Snapshot{}, fmt.Errorf("lifecycle: encode request: %w", err)
	}
	c.phase = Submitting
	c.result = nil
	c.alert = ""
	c.failure = predict.FailureNone
	c.attempt++
	c.lastRequest = body
	c.updatedAt = c.now()
	attempt := c.attempt
	c.mu.Unlock()

	c.observer.Submitted()
	started := c.now()
	result, predictErr := c.predictor.Predict(ctx, json.RawMessage(body))
	elapsed := c.now().Sub(started)
	kind := predict.Kind(predictErr)
	c.observer.Completed(result, kind, elapsed)

	c.mu.Lock()
	if predictErr == nil {
		value := result.ChurnPrediction
		c.phase = Succeeded
		c.result = &value
	} else {
		c.phase = Failed
		c.alert = c.alertMessage
		c.failure = kind
	}
	c.updatedAt = c.now()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if predictErr != nil {
		c.logger.Error("churn prediction failed",
			zap.Error(predictErr),
			zap.String("failure", string(kind)),
			zap.Int("attempt", attempt),
			zap.Duration("elapsed", elapsed),
		)
		if c.notifier != nil {
			c.notifier.Alert(ctx, c.alertMessage)
		}
		return snap, nil
	}

	c.logger.Info("churn prediction",
		zap.Int("churn_prediction", result.ChurnPrediction),
		zap.Int("attempt", attempt),
		zap.Duration("elapsed", elapsed),
	)
	return snap, nil
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Values:      c.state.Values(),
		Phase:       c.phase,
		Alert:       c.alert,
		Failure:     c.failure,
		Attempt:     c.attempt,
		LastRequest: append(json.RawMessage(nil), c.lastRequest...),
		UpdatedAt:   c.updatedAt,
	}
	if c.result != nil {
		value := *c.result
		snap.Result = &value
	}
	return snap
}
