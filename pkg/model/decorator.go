package model

// Decorator adjusts a built form model, for example applying UI schema
// labels or a visibility preset. Decorators run in registration order.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc lets a plain function act as a Decorator.
type DecoratorFunc func(*FormModel) error

func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}
