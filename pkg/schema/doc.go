// Package schema generates JSON schemas from Go types and validates decoded
// YAML documents against them.
//
// Validation errors are returned as [yaml.Error] values carrying the YAML
// path of the offending node, so they can be rendered against the source.
package schema
