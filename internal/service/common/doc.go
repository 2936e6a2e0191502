// Package common holds helpers shared by several services.
//
// It provides a gRPC client for the generation daemon with call timeouts and
// a utility to detect the current system actor (hostname/username) that is
// attached to daemon requests for the daemon's log.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
