// Package model defines the form model consumed by the wizard renderers. Form
// models are built from OpenAPI request bodies (see pkg/openapi) and sliced per
// wizard step with Subset. Validation rules keep canonical identifiers
// (min/max, minLength/maxLength, pattern) with string parameters so renderers
// can map them onto HTML attributes or prompt validators. Schema extensions
// under the `x-onboard` namespace flow into Field metadata and UI hints.
package model
