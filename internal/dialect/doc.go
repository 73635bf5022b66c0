// Package dialect collects "foreign dialect" signals in esspy sources and turns
// them into optional hint diagnostics.
//
// Three dialects are recognized: spellings from the older Python-hosted esspy
// (यावत्, प्रयततु, ...), plain Python keywords, and Go keywords written in
// English next to their Devanagari spellings.
//
// Evidence collection never changes translation; hints are advisory only.
package dialect
