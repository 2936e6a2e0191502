// Package runtimeconfig is the contract between the generator and the generic
// runtime: the generator writes Contents/Resources/config.json into every bundle,
// and the runtime reads it back relative to its own executable at startup.
package runtimeconfig
