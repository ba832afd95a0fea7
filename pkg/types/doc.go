// Package types defines the Store, Table, and Lookups interfaces, the
// content-type and field-definition entity types, and standard error
// types for the typeloom content modeling system.
package types
