// Package ports defines the interfaces the pipeline core depends on.
// Concrete implementations live under pkg/adapters.
package ports
