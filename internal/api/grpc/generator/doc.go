// Package generator implements the gRPC transport of the generation daemon.
//
// The service webbox.v1.Generator is described by hand rather than generated:
// messages are plain Go structs carried by a JSON codec registered under the
// "json" content subtype. Generate is server-streaming; every message carries
// the invocation id so callers can correlate progress with their request.
// Pipeline failures travel as gRPC statuses with ErrorInfo and BadRequest
// details and are rebuilt into *generation.Error on the client side.
package generator
