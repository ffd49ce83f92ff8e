// Package strata holds module-level metadata.
package strata

// Version is the strata release version.
const Version = "0.1.0"
