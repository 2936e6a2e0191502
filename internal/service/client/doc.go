// Package client implements the user-facing bundle commands: generate, reveal
// and launch. Each runs in-process by default or through a generation daemon
// when a remote address is given.
package client
