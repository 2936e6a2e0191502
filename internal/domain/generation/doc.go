// Package generation holds the domain model of one bundle generation run:
// the validated request, the derived manifest, the pipeline stages and their
// state machine, and the typed error taxonomy surfaced to callers.
package generation
