// Package orchestrator wires the loader -> parser -> model builder ->
// decorator pipeline that turns the prediction operation into a FormModel,
// and resolves renderers and themes for drawing it.
package orchestrator
