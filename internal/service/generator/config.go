package generator

import (
	"fmt"

	"github.com/oshokin/webbox/internal/config"
	"github.com/oshokin/webbox/internal/template"
)

// NewFromConfig locates and opens the configured template and creates a Service
// using the staging directory and identifier prefix from settings.
func NewFromConfig(settings *config.Config, opts ...Option) (*Service, error) {
	dir, err := template.Locate(settings.TemplateDirectory)
	if err != nil {
		return nil, fmt.Errorf("locate template: %w", err)
	}

	store, err := template.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}

	opts = append([]Option{
		WithStagingDirectory(settings.StagingDirectory),
		WithIdentifierPrefix(settings.IdentifierPrefix),
	}, opts...)

	return New(store, opts...), nil
}
