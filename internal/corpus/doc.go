// Package corpus implements loading, table extraction, analysis, and
// structure validation for the Markdown reference corpus. The public types it
// operates on live in the top-level corpus package.
package corpus
