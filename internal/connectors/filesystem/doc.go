// Package filesystem watches the unprocessed documents directory.
package filesystem
