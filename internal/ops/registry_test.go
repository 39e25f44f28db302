/*
Copyright © 2025 3 Leaps (hello@3leaps.net and https://3leaps.net)
*/
package ops

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, r *Registry, name string, group CommandGroup) {
	t.Helper()
	require.NoError(t, r.Register(CommandRegistration{
		Name:        name,
		Group:       group,
		Command:     &cobra.Command{Use: name},
		Description: name + " lessons",
	}))
}

func TestRegistry_BasicRegistration(t *testing.T) {
	r := NewRegistry()
	register(t, r, "normalize", GroupPipeline)

	cmd, ok := r.GetCommand("normalize")
	require.True(t, ok)
	assert.Equal(t, GroupPipeline, cmd.Group)
	assert.Equal(t, "normalize lessons", cmd.Description)

	_, ok = r.GetCommand("missing")
	assert.False(t, ok)
}

func TestRegistry_RejectsDuplicatesAndIncomplete(t *testing.T) {
	r := NewRegistry()
	register(t, r, "validate", GroupReport)

	err := r.Register(CommandRegistration{Name: "validate", Group: GroupReport, Command: &cobra.Command{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.Error(t, r.Register(CommandRegistration{Group: GroupReport, Command: &cobra.Command{}}))
	assert.Error(t, r.Register(CommandRegistration{Name: "tables", Group: GroupReport}))
}

func TestRegistry_GroupsSortedByName(t *testing.T) {
	r := NewRegistry()
	register(t, r, "normalize", GroupPipeline)
	register(t, r, "fill", GroupPipeline)
	register(t, r, "enhance", GroupPipeline)
	register(t, r, "version", GroupSupport)

	var names []string
	for _, c := range r.GetCommandsByGroup(GroupPipeline) {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"enhance", "fill", "normalize"}, names)
	assert.Equal(t, map[CommandGroup]int{GroupPipeline: 3, GroupSupport: 1}, r.ListGroups())
	assert.Len(t, r.GetAllCommands(), 4)
}

func TestGroupTitles(t *testing.T) {
	assert.Equal(t, "Pipeline Commands", GroupPipeline.Title())
	assert.Equal(t, "Report Commands", GroupReport.Title())
	assert.Equal(t, "Support Commands", GroupSupport.Title())
	assert.Equal(t, "other", CommandGroup("other").Title())
}

func TestValidateTaxonomy(t *testing.T) {
	r := NewRegistry()
	for name, group := range CoreCommands {
		register(t, r, name, group)
	}
	assert.Empty(t, ValidateTaxonomy(r))

	register(t, r, "lint", GroupReport)
	errs := ValidateTaxonomy(r)
	require.Len(t, errs, 1)
	assert.Equal(t, SeverityWarning, errs[0].Severity)
	assert.Equal(t, "lint", errs[0].Command)
}

func TestValidateTaxonomyErrors(t *testing.T) {
	r := NewRegistry()
	register(t, r, "normalize", GroupReport)
	register(t, r, "odd", CommandGroup("misc"))

	errs := ValidateTaxonomy(r)
	fatal := FilterErrorsBySeverity(errs, SeverityError)
	// five core commands missing, normalize misgrouped, odd has an invalid group
	assert.Len(t, fatal, 7)
	assert.Len(t, FilterErrorsBySeverity(errs, SeverityWarning), 1)

	out := FormatErrors(errs)
	assert.True(t, strings.HasPrefix(out, "Found 8 validation errors:"))
	assert.Contains(t, out, "[ERROR] normalize: incorrect group: expected pipeline, got report")
	assert.Contains(t, out, "[WARNING] odd: extension command detected")
	assert.Equal(t, "No validation errors found", FormatErrors(nil))
}
