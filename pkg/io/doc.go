// Package io exports labeled graphs as JSON for external tooling.
//
// # JSON Format
//
//	{
//	  "label": "mail",
//	  "nodes": [
//	    {"id": 0, "tag": "user", "value": "alice", "text": "user: \"alice\""}
//	  ],
//	  "edges": [
//	    {"id": 0, "source": 0, "target": 1, "directed": true,
//	     "tag": "access", "value": [1431000000, "imap"],
//	     "text": "access: (1431000000, \"imap\")"}
//	  ]
//	}
//
// Values map onto JSON structurally: ints become numbers, strings and bools
// their JSON counterparts, tuples and sets arrays (sets in canonical order)
// and pointers an object {"ptr": target}. The "text" field carries the same
// flattened form the DOT exporter prints.
//
// The export is one-way. Tuples and sets are indistinguishable once written,
// so there is no importer.
package io
