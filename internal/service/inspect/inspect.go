package inspect

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/oshokin/webbox/internal/bundle"
	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/icon"
	"github.com/oshokin/webbox/internal/runtimeconfig"
	"github.com/oshokin/webbox/internal/template"
)

var errNoExecutable = errors.New("Info.plist does not name CFBundleExecutable")

// IconEntry summarizes one icon container entry.
type IconEntry struct {
	Type  string `json:"type"`
	Bytes int    `json:"bytes"`
}

// Report describes a bundle.
type Report struct {
	Path             string                `json:"path"`
	Executable       string                `json:"executable"`
	ExecutableMode   string                `json:"executable_mode"`
	Identifier       string                `json:"identifier"`
	GeneratorVersion string                `json:"generator_version,omitempty"`
	Config           *runtimeconfig.Config `json:"config"`
	Icons            []IconEntry           `json:"icons"`
	HasBridge        bool                  `json:"has_notification_bridge"`
}

// Bundle inspects the bundle at path.
func Bundle(path string) (*Report, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	if _, err = os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, generation.Wrapf(generation.KindPathNotFound, "inspect", err, "%s", abs)
		}

		return nil, fmt.Errorf("inspect: %w", err)
	}

	values, err := bundle.ReadInfoPlist(abs)
	if err != nil {
		return nil, err
	}

	name, _ := values["CFBundleExecutable"].(string)
	if name == "" {
		return nil, errNoExecutable
	}

	report := &Report{
		Path:       abs,
		Executable: filepath.Join(abs, filepath.FromSlash(template.ExecutableDir), name),
	}

	report.Identifier, _ = values["CFBundleIdentifier"].(string)
	report.GeneratorVersion, _ = values[bundle.GeneratorVersionKey].(string)

	info, err := os.Stat(report.Executable)
	if err != nil {
		return nil, fmt.Errorf("stat runtime: %w", err)
	}

	report.ExecutableMode = info.Mode().Perm().String()

	// Same lookup the runtime performs at startup.
	if report.Config, err = runtimeconfig.LoadForExecutable(report.Executable); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(abs, filepath.FromSlash(bundle.IconPath)))
	if err != nil {
		return nil, fmt.Errorf("read icon: %w", err)
	}

	entries, err := icon.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode icon: %w", err)
	}

	for _, entry := range entries {
		report.Icons = append(report.Icons, IconEntry{Type: entry.Type, Bytes: len(entry.Data)})
	}

	_, err = os.Stat(filepath.Join(abs, filepath.FromSlash(template.NotificationBridgePath)))
	report.HasBridge = err == nil

	return report, nil
}

// Print writes r as an aligned table.
func (r *Report) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"Path", r.Path},
		{"Name", r.Config.Name},
		{"URL", r.Config.URL},
		{"Identifier", r.Identifier},
		{"Executable", fmt.Sprintf("%s (%s)", filepath.Base(r.Executable), r.ExecutableMode)},
		{"Generator", r.GeneratorVersion},
		{"Notification bridge", fmt.Sprintf("%t", r.HasBridge)},
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}

	for _, entry := range r.Icons {
		if _, err := fmt.Fprintf(tw, "Icon %s:\t%d bytes\n", entry.Type, entry.Bytes); err != nil {
			return err
		}
	}

	return tw.Flush()
}
