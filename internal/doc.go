// Package internal provides the analysis engine behind the phlin CLI.
//
// This package coordinates the per-file analysis process: parsing source
// files, building symbol tables, running the flow-sensitive narrowing
// analysis over every function and method, and filtering the resulting
// issues through suppression pragmas and configured severities.
//
// Key components:
//
// Engine: coordinates parsing, symbol loading, and analysis for one run.
// It is safe for concurrent Run calls once symbol preloading has finished.
//
// Config: the .phlin.yaml configuration surface, including the
// [analyzer.performance] threshold keys that bound the narrowing engine.
//
// Suppressions: parses @phlin-suppress comment pragmas and decides which
// issues they silence.
package internal
