// Package unit holds the scientific domain types serialized by tagtree:
// quantities (magnitude + unit) and equivalencies (ordered chains of named
// unit-conversion steps), together with their registry converters and the
// catalog of named transform constructors resolved during decode.
package unit
