// Package packager prepares a template installation: it scaffolds Template.app
// around a runtime binary and records the template location in the settings.
package packager
