package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{
		"set", "skill", "project", "show", "save", "reset",
		"generate", "export", "preview", "launch", "serve",
	} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestExportSubcommands(t *testing.T) {
	sub := map[string]bool{}
	for _, c := range exportCmd.Commands() {
		sub[c.Name()] = true
	}
	assert.True(t, sub["html"])
	assert.True(t, sub["pdf"])
}

func TestResolveConfigPathFlagWins(t *testing.T) {
	old := cfgPath
	defer func() { cfgPath = old }()

	cfgPath = "/tmp/custom.yaml"
	require.Equal(t, "/tmp/custom.yaml", resolveConfigPath())
}
