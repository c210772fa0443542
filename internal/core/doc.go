// Package core provides the record ingestion and fuzzy ranking engine for
// applicant survey exports.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web host, the terminal host, and tests without
// modification.
//
// # Pipeline
//
// Raw file bytes flow through the package in one direction:
//
//  1. [Normalize] applies fixed literal rewrites to the whole file content
//  2. The CSV header is indexed with [MakeHeaderIndex]
//  3. Each data row is mapped onto a [Record] by [ParseRow] using [ApplicantFields]
//  4. [Render] turns each Record into its card text
//  5. The [Session] stores records and cards in index-aligned slices
//
// On every query change [Session.Search] scores each card with [ScoreAll]
// and rebuilds the display order with [SortOrder].
//
// # Ranking
//
// Scoring uses fzf's FuzzyMatchV2 algorithm (the algorithm skim's V2 matcher
// is derived from). A card that does not match scores 0, the same score every
// card receives for an empty query. Sorting is stable and ascending, and the
// display reads the order in reverse so the best match comes first.
//
// # Error Handling
//
// A row that fails to decode is skipped and reported in [IngestResult.FailedRows];
// it never aborts an ingest and never consumes an index. File read failures
// ([FileAccessError]) and invalid UTF-8 ([EncodingError]) fail the whole
// attempt and leave the session untouched. [MapError] converts any of these to
// a user-facing [UserMessage] with a support code.
package core
