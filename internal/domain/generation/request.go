package generation

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Request field names reported by InvalidRequest errors.
const (
	FieldDisplayName     = "displayName"
	FieldTargetURL       = "targetUrl"
	FieldSourceIconPath  = "sourceIconPath"
	FieldOutputDirectory = "outputDirectory"
)

const (
	// maxDisplayNameLength keeps <name>.app well under common path component limits.
	maxDisplayNameLength = 128
	// outputDirectoryMode is used when the output directory has to be created.
	outputDirectoryMode os.FileMode = 0o755
	// defaultScheme is prepended to URLs typed without one.
	defaultScheme = "https"
)

// RawRequest carries the unvalidated field values received from a caller.
type RawRequest struct {
	DisplayName     string `json:"name"`
	TargetURL       string `json:"url"`
	SourceIconPath  string `json:"icon_path"`
	OutputDirectory string `json:"output_dir"`
}

// Request is a validated, immutable generation request.
type Request struct {
	displayName     string
	targetURL       string
	sourceIconPath  string
	outputDirectory string
}

// NewRequest validates raw and returns the accepted request.
// The caller is never trusted: every rule is checked here even if a form already did.
func NewRequest(raw RawRequest) (*Request, error) {
	name, err := validateDisplayName(raw.DisplayName)
	if err != nil {
		return nil, err
	}

	target, err := NormalizeURL(raw.TargetURL)
	if err != nil {
		return nil, err
	}

	icon, err := validateIconPath(raw.SourceIconPath)
	if err != nil {
		return nil, err
	}

	output, err := validateOutputDirectory(raw.OutputDirectory)
	if err != nil {
		return nil, err
	}

	return &Request{
		displayName:     name,
		targetURL:       target,
		sourceIconPath:  icon,
		outputDirectory: output,
	}, nil
}

// DisplayName returns the trimmed display name.
func (r *Request) DisplayName() string { return r.displayName }

// TargetURL returns the normalized absolute URL.
func (r *Request) TargetURL() string { return r.targetURL }

// SourceIconPath returns the absolute path of the source image.
func (r *Request) SourceIconPath() string { return r.sourceIconPath }

// OutputDirectory returns the absolute output directory.
func (r *Request) OutputDirectory() string { return r.outputDirectory }

// BundleName returns the file name of the finalized bundle.
func (r *Request) BundleName() string { return r.displayName + BundleExtension }

// BundlePath returns where the finalized bundle will live.
func (r *Request) BundlePath() string {
	return filepath.Join(r.outputDirectory, r.BundleName())
}

func validateDisplayName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", InvalidRequest(FieldDisplayName, "must not be empty")
	}

	if utf8.RuneCountInString(name) > maxDisplayNameLength {
		return "", InvalidRequest(FieldDisplayName, fmt.Sprintf("must be at most %d characters", maxDisplayNameLength))
	}

	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' {
			continue
		}

		return "", InvalidRequest(FieldDisplayName,
			fmt.Sprintf("contains %q; use letters, numbers, spaces, or hyphens", r))
	}

	return name, nil
}

// NormalizeURL turns user input such as "notion.so" into "https://notion.so".
func NormalizeURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", InvalidRequest(FieldTargetURL, "must not be empty")
	}

	if !strings.Contains(value, "://") {
		value = defaultScheme + "://" + value
	}

	parsed, err := url.Parse(value)
	if err != nil {
		return "", InvalidRequest(FieldTargetURL, "is not a valid URL")
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", InvalidRequest(FieldTargetURL, "must use http or https")
	}

	if parsed.User != nil {
		return "", InvalidRequest(FieldTargetURL, "must not contain a user name or password")
	}

	host := strings.ToLower(parsed.Hostname())
	if !strings.Contains(strings.Trim(host, "."), ".") {
		return "", InvalidRequest(FieldTargetURL, "must have a hostname such as example.com")
	}

	if port := parsed.Port(); port != "" {
		parsed.Host = host + ":" + port
	} else {
		parsed.Host = host
	}

	return parsed.String(), nil
}

func validateIconPath(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", InvalidRequest(FieldSourceIconPath, "must not be empty")
	}

	path, err := absolutePath(raw)
	if err != nil {
		return "", InvalidRequest(FieldSourceIconPath, err.Error())
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", InvalidRequest(FieldSourceIconPath, "file does not exist")
		}

		return "", InvalidRequest(FieldSourceIconPath, err.Error())
	}

	if !info.Mode().IsRegular() {
		return "", InvalidRequest(FieldSourceIconPath, "is not a regular file")
	}

	f, err := os.Open(path)
	if err != nil {
		return "", InvalidRequest(FieldSourceIconPath, "file is not readable")
	}

	_ = f.Close()

	return path, nil
}

func validateOutputDirectory(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", InvalidRequest(FieldOutputDirectory, "must not be empty")
	}

	path, err := absolutePath(raw)
	if err != nil {
		return "", InvalidRequest(FieldOutputDirectory, err.Error())
	}

	if err = os.MkdirAll(path, outputDirectoryMode); err != nil {
		return "", InvalidRequest(FieldOutputDirectory, "cannot be created: "+err.Error())
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", InvalidRequest(FieldOutputDirectory, err.Error())
	}

	if !info.IsDir() {
		return "", InvalidRequest(FieldOutputDirectory, "is not a directory")
	}

	if err = checkWritable(path); err != nil {
		return "", InvalidRequest(FieldOutputDirectory, "is not writable")
	}

	return path, nil
}

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func absolutePath(raw string) (string, error) {
	expanded, err := ExpandHome(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}

	return filepath.Abs(expanded)
}
