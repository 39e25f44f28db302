package ops

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorSeverity represents the severity of validation errors
type ErrorSeverity int

const (
	SeverityError ErrorSeverity = iota
	SeverityWarning
)

// ValidationError represents a taxonomy validation error
type ValidationError struct {
	Severity ErrorSeverity
	Command  string
	Message  string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	sev := "ERROR"
	if e.Severity == SeverityWarning {
		sev = "WARNING"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, e.Command, e.Message)
}

// CoreCommands maps every command lessonkit ships to its expected group.
var CoreCommands = map[string]CommandGroup{
	"normalize": GroupPipeline,
	"enhance":   GroupPipeline,
	"fill":      GroupPipeline,
	"validate":  GroupReport,
	"tables":    GroupReport,
	"version":   GroupSupport,
}

// ValidateTaxonomy checks that core commands are registered in their expected
// group and that no command uses an unknown group. Unexpected commands are warnings.
func ValidateTaxonomy(registry *Registry) []ValidationError {
	var errs []ValidationError

	names := make([]string, 0, len(CoreCommands))
	for name := range CoreCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		want := CoreCommands[name]
		reg, ok := registry.GetCommand(name)
		if !ok {
			errs = append(errs, ValidationError{Severity: SeverityError, Command: name, Message: "core command is not registered"})
			continue
		}
		if reg.Group != want {
			errs = append(errs, ValidationError{
				Severity: SeverityError,
				Command:  name,
				Message:  fmt.Sprintf("incorrect group: expected %s, got %s", want, reg.Group),
			})
		}
	}

	all := registry.GetAllCommands()
	extra := make([]string, 0)
	for name := range all {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		reg := all[name]
		if !knownGroup(reg.Group) {
			errs = append(errs, ValidationError{Severity: SeverityError, Command: name, Message: fmt.Sprintf("uses invalid group: %s", reg.Group)})
		}
		if _, core := CoreCommands[name]; !core {
			errs = append(errs, ValidationError{Severity: SeverityWarning, Command: name, Message: "extension command detected"})
		}
	}
	return errs
}

func knownGroup(g CommandGroup) bool {
	for _, known := range GroupOrder {
		if g == known {
			return true
		}
	}
	return false
}

// FilterErrorsBySeverity returns errors of a specific severity
func FilterErrorsBySeverity(errs []ValidationError, severity ErrorSeverity) []ValidationError {
	var filtered []ValidationError
	for _, err := range errs {
		if err.Severity == severity {
			filtered = append(filtered, err)
		}
	}
	return filtered
}

// FormatErrors formats validation errors for display
func FormatErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors found"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Found %d validation errors:\n", len(errs))
	for i, err := range errs {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, err.Error())
	}
	return builder.String()
}
