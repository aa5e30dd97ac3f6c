// Package middleware provides composable wrappers around a response store,
// covering encryption at rest and PII masking of respondent answers.
package middleware

import "github.com/flowform/engine/pkg/ports"

// Middleware allows wrapping a ResponseStore to add behavior.
type Middleware func(ports.ResponseStore) ports.ResponseStore
