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

// FindCommandAction is the action handler for the "find" subcommand. It
// looks up a single movie by title, resolving the API key on demand, and
// emits the result according to common output/attr flags.
func FindCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	title := strings.Join(cmd.Args().Slice(), " ")
	if title == "" {
		return errors.New("a movie title is required")
	}

	key, err := ResolveAPIKey(ctx, cmd)
	if err != nil {
		return err
	}

	client := omdb.NewClient(key, cmd.String("host"))
	doc, err := client.Title(ctx, omdb.TitleQuery{
		Title: title,
		Year:  cmd.String("year"),
		Plot:  cmd.String("plot"),
	})
	if errors.Is(err, omdb.ErrNotFound) {
		return fmt.Errorf("no movie matched %q", title)
	}
	if errors.Is(err, omdb.ErrInvalidKey) {
		return fmt.Errorf("%w; run 'movctl key reset' and retry", err)
	}
	if err != nil {
		return err
	}

	if movie, decErr := omdb.DecodeMovie(doc); decErr == nil {
		recordLookup(title, movie)
	} else {
		log.WithError(decErr).Debug("skipping history for undecodable document")
	}

	al := BuildAttrs(cmd, "Title,Year,Rated,Runtime,Genre,imdbRating:rating,Plot")
	log.Debugf("attrs: %v", al)

	return EmitDoc(doc, al, cmd, "")
}

// FindCommandBuilder constructs the cli.Command definition for the "find"
// command, wiring flags, metadata, and the action handler.
func FindCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "find",
		Usage:     "look up a movie by title",
		UsageText: `movctl find TITLE... [options]`,
		ArgsUsage: "TITLE...",
		Flags: []cli.Flag{
			NewHostFlag("find", meta.Config.Source),
			NewKeyFlag(),
			&cli.StringFlag{
				Name:    "year",
				Aliases: []string{"y"},
				Usage:   "year of release to disambiguate remakes",
			},
			&cli.StringFlag{
				Name:  "plot",
				Usage: "plot length",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("MOVCTL_PLOT"),
				),
				Value: "short",
				Validator: func(value string) error {
					return FlagValidators(value, PlotValidator)
				},
			},
		},
		Action: FindCommandAction,
		Meta:   meta,
	}).Build()
}
