// Package config defines the generator settings shared by the CLI and the
// daemon and provides helpers to load, validate and save them in YAML format.
//
// Settings cover where bundles are written, where the template bundle lives,
// how bundle identifiers are prefixed and how the daemon is reached.
package config
