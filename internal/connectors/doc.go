// Package connectors holds adapters that observe document sources.
// The filesystem connector watches the unprocessed directory for new files.
package connectors
