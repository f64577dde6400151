// Package model defines the typed form model consumed by the form state,
// the lifecycle controller and the renderers. Builders reside in
// internal/model but return the types defined here. Numeric bounds are
// encoded as min/max validation rules mirroring the attributes of a native
// number input; enum domains are kept in schema order so selects render the
// same options the prediction endpoint accepts.
package model
