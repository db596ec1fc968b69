// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"movctl/internal/attrs"
	"movctl/internal/credential"
	"movctl/internal/history"
	"movctl/internal/meta"
	"movctl/internal/omdb"
	"movctl/internal/output"
	"movctl/internal/prompt"
)

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
	}
	return
}

// ResolveAPIKey implements the acquisition flow for commands that hit the
// API: an explicit --key/MOVCTL_KEY wins and is never persisted; otherwise
// the credential cache is consulted; on a miss the user is prompted and the
// answer saved before proceeding. A declined prompt aborts without saving.
// Absence of a stored key is never itself an error.
func ResolveAPIKey(ctx context.Context, cmd *cli.Command) (string, error) {
	if k := strings.TrimSpace(cmd.String("key")); k != "" {
		log.Debug("using API key from flag/env")
		return k, nil
	}

	cache, err := credential.NewDefault()
	if err != nil {
		return "", err
	}

	key, ok, err := cache.Get()
	if err != nil {
		return "", err
	}
	if ok {
		return key, nil
	}

	key, err = prompt.APIKey(ctx)
	if errors.Is(err, prompt.ErrDeclined) {
		return "", fmt.Errorf("an OMDb API key is required; get one at https://omdbapi.com/apikey.aspx")
	}
	if err != nil {
		return "", err
	}

	if err := cache.Save(key); err != nil {
		return "", err
	}
	fmt.Fprintln(os.Stderr, "API key saved.")

	return key, nil
}

// EmitDoc passes a raw API document to the common output routine. parent
// selects a sub-document, e.g. "Search" for search results.
func EmitDoc(doc bytes.Buffer, al attrs.AttrList, cmd *cli.Command, parent string) error {
	return output.Spit(doc, al, cmd, parent, os.Stdout)
}

// recordLookup appends to the lookup history, best-effort. movie is nil for
// queries that did not resolve to a single title.
func recordLookup(query string, movie *omdb.Movie) {
	rec := history.Record{Query: query}
	if movie != nil {
		rec.Title = movie.Title
		rec.Year = movie.Year
		rec.ImdbID = movie.ImdbID
	}
	history.Append(rec)
}

// QueryCommandBuilder constructs a cli.Command for query subcommands using a
// consistent pattern: metadata wiring, global flags, and the Before
// validator hook.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	ArgsUsage string
	Flags     []cli.Flag
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		ArgsUsage: qcb.ArgsUsage,
		Metadata: map[string]any{
			"meta": qcb.Meta,
		},
		Flags: append(qcb.Flags, NewGlobalFlags(qcb.Name)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}
