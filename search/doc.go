// Package search implements cascading semantic search over embedded
// work records.
//
// A query is embedded once, then tried against the granularity levels
// in an intent-dependent order: aggregate questions (trends, summaries)
// start at session level, specific questions start at field level. The
// first level with hits wins; coarser or finer levels are consulted
// only when the preferred level is empty.
//
// Hits are scored by a weighted composite of similarity, recency, level
// fit, and content signals, deduplicated by the configured strategy,
// and finally enriched with snippets, session context, and related
// results. Ranking decides order; deduplication and enrichment never
// change it.
package search
