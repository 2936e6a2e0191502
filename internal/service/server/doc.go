// Package server runs the generation daemon: a gRPC server exposing the
// pipeline and the reveal/launch actions to local clients.
package server
