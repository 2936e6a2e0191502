// Package inspect reads a generated bundle back the way the runtime does and
// reports what it finds.
package inspect
