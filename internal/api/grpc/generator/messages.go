package generator

import (
	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/progress"
	service "github.com/oshokin/webbox/internal/service/generator"
)

// Actor identifies who issued a request, for the daemon's log.
type Actor struct {
	Hostname string `json:"hostname"`
	Username string `json:"username"`
}

// String renders the actor as user@host.
func (a *Actor) String() string {
	if a == nil {
		return "<unknown>"
	}

	return a.Username + "@" + a.Hostname
}

// GenerateRequest starts a generation.
type GenerateRequest struct {
	Request   generation.RawRequest `json:"request"`
	Requester *Actor                `json:"requester,omitempty"`
}

// GenerateEvent is one message of the Generate stream. The first message only
// carries the invocation id; then come progress events; a successful run ends
// with a message carrying the result.
type GenerateEvent struct {
	InvocationID string          `json:"invocation_id"`
	Progress     *progress.Event `json:"progress,omitempty"`
	Result       *service.Result `json:"result,omitempty"`
}

// PathRequest names a finalized bundle for Reveal and Launch.
type PathRequest struct {
	Path      string `json:"path"`
	Requester *Actor `json:"requester,omitempty"`
}

// PathResponse echoes the resolved bundle path.
type PathResponse struct {
	Path string `json:"path"`
}
