// Package bundle materializes application bundles inside exclusive staging
// workspaces.
//
// A Workspace is a private directory that exists for one pipeline run. The
// Assembler fills <workspace>/<name>.app from a template store, an encoded icon
// and a manifest; nothing in this package touches the user's output directory.
package bundle
