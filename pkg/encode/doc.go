// Package encode turns structured values into the stable text that golden
// checks compare: pretty JSON with optional key normalization, human
// readable tables, YAML, TOML and re-indented XML.
//
// Every encoder is deterministic for a given input; map keys are always
// emitted in sorted order.
package encode
