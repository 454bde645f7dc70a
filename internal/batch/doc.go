// Package batch runs multi-file operations against the catalog and the
// collection tree: bulk imports, bulk removals, and a bounded worker pool for
// per-file processing.
package batch
