package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary twang shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the availability report for one Requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries resolves each requirement's command through PATH and reports
// availability. Detail carries the reason when a binary cannot be used.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = check(req)
	}
	return results
}

func check(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	if _, err := exec.LookPath(status.Command); err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Available = true
	return status
}

// ResolvePath returns the absolute path a command resolves to through PATH.
// When lookup fails, the command is returned unchanged so status output still
// names the binary the configuration asked for.
func ResolvePath(command string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		return command
	}
	if path, err := exec.LookPath(command); err == nil {
		return path
	}
	return command
}
