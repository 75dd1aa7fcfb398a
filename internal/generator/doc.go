// Package generator renders the Markdown reference corpus into a static
// HTML site and scaffolds missing pages from the catalog. Builds are
// incremental: a manifest records the checksum and output of every page so
// unchanged sources are skipped unless the site configuration changed or a
// forced build is requested.
package generator
