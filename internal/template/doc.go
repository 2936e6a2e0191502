// Package template gives read-only access to the template bundle every
// generated app is built from.
//
// A template is a Template.app directory holding the generic runtime under
// Contents/MacOS, the resource skeleton (including the notification bridge) under
// Contents/Resources, and the Info.plist manifest template naming the runtime
// executable. The store never writes to the template; Scaffold creates a new one
// from the assets embedded in this package and a runtime binary.
package template
