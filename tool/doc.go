// Package tool wraps the external capabilities the research agent
// depends on: the user profile store, search-query generation, web
// search, page lookup and email discovery. Each adapter is a typed
// request/response client that validates its own output against the
// schema package before returning it.
//
// Providers are treated as black boxes. "Not found" is modeled as
// data, not failure: an empty search result and an EmailResult with
// source "none" are valid outputs.
package tool
