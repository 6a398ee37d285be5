// Package memory provides in-process implementations of the storage ports.
// They hold everything in maps guarded by a mutex and are used by tests
// and by the "memory" vector backend for dry runs.
package memory
