// Package render defines the output side of the pipeline: the Renderer
// contract that serializes a builder.Result, the per-request RenderOptions and
// a Registry for looking renderers up by name.
package render
