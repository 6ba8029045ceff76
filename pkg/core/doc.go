// Package core defines the shared language of the leapxfer system.
//
// This package contains:
//   - Scalar kinds and column schema entries (Kind, Column)
//   - Connection descriptors (ConnConfig)
//   - Join specifications (Join, JoinSpec)
//   - The error taxonomy (Error, ErrorKind) and the Result envelope
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
