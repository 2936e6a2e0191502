// Package shell hands finalized bundles to the operating system: revealing them
// in the file manager and launching them.
package shell
