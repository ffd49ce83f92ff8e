// Package types defines the contract between the strata engine and its
// tabular store backends: schema and row representations, cursor, store and
// edit-session interfaces, the Config structure, and the standard errors.
//
// Everything the crud and orm packages need from a backend is expressed here;
// internal/sqlite is the reference implementation.
package types
