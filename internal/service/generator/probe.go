package generator

import (
	"strings"

	"github.com/mitchellh/go-ps"
)

// isProcessRunning reports whether any process runs an executable named name.
func isProcessRunning(name string) bool {
	processes, err := ps.Processes()
	if err != nil {
		return false
	}

	for _, p := range processes {
		if strings.EqualFold(p.Executable(), name) {
			return true
		}
	}

	return false
}
