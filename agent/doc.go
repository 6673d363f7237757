// Package agent implements the people-search agent: an explicit state
// machine that gathers user context, plans and runs web searches,
// extracts validated person records, and — on a separate, confirmed
// turn — resolves email addresses.
//
// Classification and extraction are pluggable capabilities
// (GoalAnalyzer, PeopleExtractor) satisfied interchangeably by a
// language-model call or a test stub. All tool failures are absorbed
// here and translated into a SearchResponse status; callers never see
// raw tool errors.
package agent
