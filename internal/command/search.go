// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"movctl/internal/meta"
	"movctl/internal/omdb"
)

// SearchCommandAction is the action handler for the "search" subcommand. It
// runs a paged title search and emits the result list.
func SearchCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	query := strings.Join(cmd.Args().Slice(), " ")
	if query == "" {
		return errors.New("a search query is required")
	}

	key, err := ResolveAPIKey(ctx, cmd)
	if err != nil {
		return err
	}

	client := omdb.NewClient(key, cmd.String("host"))
	doc, err := client.Search(ctx, omdb.SearchQuery{
		Query: query,
		Page:  int(cmd.Int("page")),
	})
	if errors.Is(err, omdb.ErrNotFound) {
		return fmt.Errorf("no movies matched %q", query)
	}
	if errors.Is(err, omdb.ErrInvalidKey) {
		return fmt.Errorf("%w; run 'movctl key reset' and retry", err)
	}
	if err != nil {
		return err
	}

	recordLookup(query, nil)

	al := BuildAttrs(cmd, "Title,Year,imdbID:id,Type")
	log.Debugf("attrs: %v", al)

	return EmitDoc(doc, al, cmd, "Search")
}

// SearchCommandBuilder constructs the cli.Command definition for the
// "search" command.
func SearchCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "search",
		Usage:     "search movies by title",
		UsageText: `movctl search QUERY... [options]`,
		ArgsUsage: "QUERY...",
		Flags: []cli.Flag{
			NewHostFlag("search", meta.Config.Source),
			NewKeyFlag(),
			&cli.IntFlag{
				Name:    "page",
				Aliases: []string{"p"},
				Usage:   "result page to fetch",
				Value:   1,
			},
		},
		Action: SearchCommandAction,
		Meta:   meta,
	}).Build()
}
