// Package generator runs the generation pipeline: it validates a request,
// converts the icon, assembles the bundle in a private workspace, writes the
// runtime configuration and hands the result to the finalizer, publishing
// progress along the way. Service is the only entry point; the daemon and the
// CLI both drive it.
package generator
