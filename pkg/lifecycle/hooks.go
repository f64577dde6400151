package lifecycle

import (
	"context"
	"time"

	"github.com/goliatone/go-churnform/pkg/predict"
)

// Notifier surfaces the user-visible failure notice.
type Notifier interface {
	Alert(ctx context.Context, message string)
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, message string)

// Alert calls the underlying function.
func (fn NotifierFunc) Alert(ctx context.Context, message string) {
	fn(ctx, message)
}

// Observer receives submission events, typically for metrics. result is
// only meaningful when kind is FailureNone.
type Observer interface {
	Submitted()
	Completed(result predict.Result, kind predict.FailureKind, elapsed time.Duration)
	Rejected()
}

type nopObserver struct{}

func (nopObserver) Submitted()                                                   {}
func (nopObserver) Completed(predict.Result, predict.FailureKind, time.Duration) {}
func (nopObserver) Rejected()                                                    {}
