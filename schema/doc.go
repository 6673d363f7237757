// Package schema defines the structured contracts produced by the
// lead-research agent: conversation turns, person records, email
// resolution results and the per-turn SearchResponse envelope.
//
// Every producer of structured data validates against this package
// before handing results to its caller. Enumerated fields are closed
// sets; an unrecognized value is a validation failure, never a default.
package schema
