// Package dialects groups the concrete dialect definitions. Each
// subpackage registers itself with pkg/dialect from init().
package dialects
