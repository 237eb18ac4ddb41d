// Package domain holds the core types of the install pipeline: the stages,
// the toolchain contract, command invocations and their results, and the
// lifecycle events emitted while a run progresses.
//
// The package is dependency-light on purpose. Adapters (process execution,
// HTTP status, metrics) live elsewhere and depend on this package, never the
// other way around.
package domain
