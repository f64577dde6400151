// Package churnform collects customer attributes through a form generated
// from the prediction endpoint's OpenAPI description, submits them to the
// churn classifier and reports whether the customer is likely to churn or
// stay.
//
// The quickest way in is LoadForm, which builds the decorated form model
// from the embedded schema, followed by lifecycle.New to drive submissions:
//
//	form, err := churnform.LoadForm(ctx)
//	ctrl, err := lifecycle.New(form, predict.NewClient(endpoint))
//	snap, err := ctrl.Submit(ctx)
package churnform
