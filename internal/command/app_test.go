// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"

	"movctl/internal/meta"
)

func TestInitApp(t *testing.T) {
	app, err := InitApp(context.Background(), []string{"movctl", "find", "alien"})
	assert.NoError(t, err)
	assert.Equal(t, "movctl", app.Name)

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t, []string{"find", "search", "history", "key"}, names)
}

func TestInitApp_FlagsSorted(t *testing.T) {
	app, err := InitApp(context.Background(), []string{"movctl", "find"})
	assert.NoError(t, err)

	for _, cmd := range app.Commands {
		for i := 1; i < len(cmd.Flags); i++ {
			assert.LessOrEqual(t,
				cmd.Flags[i-1].Names()[0],
				cmd.Flags[i].Names()[0],
				"flags of %s not sorted", cmd.Name)
		}
	}
}

func TestGetMeta(t *testing.T) {
	m := meta.Meta{Args: []string{"movctl", "find"}}
	cmd := &cli.Command{Metadata: map[string]any{"meta": m}}
	assert.Equal(t, m, GetMeta(cmd))

	assert.Equal(t, meta.Meta{}, GetMeta(nil))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{}))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{Metadata: map[string]any{"meta": 42}}))
}

func TestQueryCommandBuilder_Build(t *testing.T) {
	built := (&QueryCommandBuilder{
		Name:  "find",
		Usage: "look up a movie by title",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return nil
		},
	}).Build()

	assert.Equal(t, "find", built.Name)
	assert.NotNil(t, built.Action)
	assert.NotNil(t, built.Before)

	// Global flags must be appended for every query command.
	var names []string
	for _, f := range built.Flags {
		names = append(names, f.Names()[0])
	}
	for _, want := range []string{"attrs", "color", "filter", "output", "sort", "titles"} {
		assert.Contains(t, names, want)
	}
}

func TestKeyCommandBuilder_Subcommands(t *testing.T) {
	key := KeyCommandBuilder(&cli.Command{}, meta.Meta{})

	var names []string
	for _, cmd := range key.Commands {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t, []string{"set", "reset", "status"}, names)
}
