// Package typeloom exposes module-level metadata.
package typeloom

// Version is the current release version.
const Version = "0.1.0"
