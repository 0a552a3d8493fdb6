// Package source reads encoded mobiledoc payloads from files or an fs.FS.
// Loaders only fetch bytes; decoding lives in pkg/model.
package source
