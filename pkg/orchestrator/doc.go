// Package orchestrator wires the loader, decoder, builder and renderer
// pipeline behind a single entry point with dependency injection friendly
// options.
package orchestrator
