// Package store loads, validates, and saves the reminder task file.
//
// The task file (tasks.json) maps calendar dates to ordered task lists:
//
//	{
//	    "2025-06-10": [
//	        {
//	            "id": "0b5c7e5e-8f0e-4a53-a1c2-4f0d1f6c1e11",
//	            "task": "Study",
//	            "time": "09:00"
//	        }
//	    ]
//	}
//
// The "id" field is optional so that files written before ids existed
// still load; such records are addressed by their position in the list.
//
// # Lifecycle
//
// The file on disk is the only source of truth. Callers load it fresh for
// every operation and write the whole structure back after every mutation.
// No key may map to an empty list; Save prunes empty lists before writing.
//
// # Validation
//
// Load validates the raw document against the embedded JSON Schema
// (draft 2020-12) and then runs semantic checks that a schema cannot
// express, such as rejecting "2025-02-30". A document that fails either
// step is corrupt and handled according to the store's CorruptPolicy.
//
// # File Format
//
// When writing, the package uses:
//   - 4-space indentation
//   - sorted date keys
//   - a trailing newline
//   - a temp file plus rename, so readers never see a half-written file
package store
