// Package templatetest builds throwaway template bundles for tests.
package templatetest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/webbox/internal/template"
)

// RuntimeContents is the body of the fake runtime written by New.
const RuntimeContents = "#!/bin/sh\necho webbox runtime\n"

// New scaffolds a complete template bundle in a temporary directory and returns its path.
func New(t testing.TB) string {
	t.Helper()

	root := t.TempDir()
	runtimePath := filepath.Join(root, "runtime")
	require.NoError(t, os.WriteFile(runtimePath, []byte(RuntimeContents), 0o755))

	dir := filepath.Join(root, template.DirectoryName)
	_, err := template.Scaffold(dir, runtimePath)
	require.NoError(t, err)

	return dir
}

// Open scaffolds a template bundle and opens it.
func Open(t testing.TB) *template.Store {
	t.Helper()

	store, err := template.Open(New(t))
	require.NoError(t, err)

	return store
}
