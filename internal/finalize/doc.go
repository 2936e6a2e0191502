// Package finalize promotes a staged bundle into the output directory.
//
// Promotion is all-or-nothing: after Install returns, the final path holds
// either the complete new bundle or, on failure, exactly what it held before.
// Installs targeting the same final path are serialized by a per-path lock
// owned by the Finalizer; installs to different paths run in parallel.
package finalize
