// Package formstate holds the customer attributes edited through the churn
// form. A State always carries the complete field set with values a native
// input control could have produced; SetField returns a new State and never
// mutates its receiver.
package formstate
