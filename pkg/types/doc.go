// Package types defines the Engine interface, entity and attribute types,
// query predicates, and standard errors for the EAVL storage engine.
package types
