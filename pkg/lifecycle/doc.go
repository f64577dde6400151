// Package lifecycle drives a single churn form through its request
// lifecycle. A Controller owns the form values and the Idle, Submitting,
// Succeeded and Failed phases, and allows one prediction request in flight
// at a time.
package lifecycle
