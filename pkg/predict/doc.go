// Package predict talks to the remote churn classifier. A Client posts the
// form values as JSON and decodes the binary churn_prediction flag from the
// reply. Failures are classified as network, status or malformed so callers
// can record them without inspecting transport details.
package predict
