// Package testsupport provides fixtures shared by package tests: the
// decorated churn form and a fake prediction endpoint.
package testsupport
