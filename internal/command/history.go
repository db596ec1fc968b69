// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"movctl/internal/history"
	"movctl/internal/meta"
	"movctl/internal/output"
)

// HistoryCommandAction lists recent lookups, newest first. Rows carry both
// the RFC3339 timestamp and a human-relative form so text output stays
// readable while json/yaml remain machine-friendly.
func HistoryCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	h, err := history.Open()
	if err != nil {
		return err
	}
	defer h.Close()

	records, err := h.Recent(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	rows := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]interface{}{
			"when":    rec.When.UTC().Format(time.RFC3339),
			"ago":     humanize.Time(rec.When),
			"query":   rec.Query,
			"title":   rec.Title,
			"year":    rec.Year,
			"imdb_id": rec.ImdbID,
		})
	}

	al := BuildAttrs(cmd, "ago,query,title,year")
	output.SortDataset(rows, cmd.String("sort"))

	return output.Emit(rows, al, output.Options{
		Format: cmd.String("output"),
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}, os.Stdout)
}

// HistoryCommandBuilder constructs the cli.Command definition for the
// "history" command.
func HistoryCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "history",
		Usage:     "show recent lookups",
		UsageText: `movctl history [options]`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "maximum number of lookups to show",
				Value:   20, //nolint:mnd
			},
		},
		Action: HistoryCommandAction,
		Meta:   meta,
	}).Build()
}
