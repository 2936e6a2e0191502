package generation

import (
	"fmt"
	"strings"
	"time"
)

// BundleExtension is the suffix of every finalized bundle directory.
const BundleExtension = ".app"

// Manifest is the metadata derived from a request and written into a bundle.
type Manifest struct {
	// DisplayName is shown by the OS shell and in the runtime window title.
	DisplayName string
	// Identifier is the stable reverse-DNS bundle identifier.
	Identifier string
	// TargetURL is the page the runtime loads.
	TargetURL string
	// GeneratedAt is when the pipeline produced the bundle.
	GeneratedAt time.Time
}

// NewManifest derives the manifest for req.
func NewManifest(req *Request, identifierPrefix string, now time.Time) *Manifest {
	return &Manifest{
		DisplayName: req.DisplayName(),
		Identifier:  Identifier(identifierPrefix, req.DisplayName()),
		TargetURL:   req.TargetURL(),
		GeneratedAt: now.UTC(),
	}
}

// Identifier derives the bundle identifier for displayName.
// It is pure and total over valid display names, so regenerating under the same
// name always addresses the same OS-level app identity: lower-case ASCII letters
// and digits are kept, spaces become hyphens, and any other rune is written as
// "u" followed by its hexadecimal code point.
func Identifier(prefix, displayName string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(strings.TrimSpace(displayName)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		default:
			_, _ = fmt.Fprintf(&b, "u%04x", r)
		}
	}

	slug := b.String()
	if slug == "" {
		slug = "app"
	}

	return strings.TrimSuffix(prefix, ".") + "." + slug
}
