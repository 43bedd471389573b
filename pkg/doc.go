// Package pkg holds the logle libraries.
//
// # Overview
//
// logle reads forensic logs and turns them into typed, labeled graphs:
// nodes carry a tag and a value, edges carry a tag, a value and a
// direction, and every label is checked against a schema.
//
//  1. [errors], [invariant] - structured errors and internal assertions
//  2. [ast] - the type and value language used by labels
//  3. [graph] - the labeled graph, its schema and transforms
//  4. [input] - owned file sources and CSV/JSON readers
//  5. [analyzer] - the mail, curio and plaso log analyzers
//  6. [render/nodelink], [io] - DOT, SVG and JSON output
//  7. [pipeline], [cache], [observability] - orchestration of a run
//  8. [config], [server] - settings files and the HTTP API
//
// # Architecture
//
//	Log file (CSV, JSON, JSON stream)
//	         ↓
//	    [input] package (owned source, record readers)
//	         ↓
//	    [analyzer] package (schema-checked graph)
//	         ↓
//	    [graph/transform] package (delete nodes, merge edges)
//	         ↓
//	    DOT/SVG/JSON output
package pkg
