// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"movctl/internal/credential"
	"movctl/internal/meta"
	"movctl/internal/prompt"
)

// KeyCommandBuilder constructs the "key" command group for managing the
// stored OMDb API key. The stored key value is never printed.
func KeyCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "key",
		Usage: "manage the stored OMDb API key",
		Metadata: map[string]any{
			"meta": meta,
		},
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "store an API key, prompting when VALUE is omitted",
				ArgsUsage: "[VALUE]",
				Action:    keySetAction,
			},
			{
				Name:   "reset",
				Usage:  "delete the stored API key",
				Action: keyResetAction,
			},
			{
				Name:   "status",
				Usage:  "report whether an API key is stored and where",
				Action: keyStatusAction,
			},
		},
	}
}

func keySetAction(ctx context.Context, cmd *cli.Command) error {
	value := strings.Join(cmd.Args().Slice(), " ")
	if value == "" {
		var err error
		value, err = prompt.APIKey(ctx)
		if errors.Is(err, prompt.ErrDeclined) {
			return errors.New("no key provided, nothing saved")
		}
		if err != nil {
			return err
		}
	}

	cache, err := credential.NewDefault()
	if err != nil {
		return err
	}
	if err := cache.Save(value); err != nil {
		return err
	}

	path, _ := credential.DefaultPath()
	fmt.Printf("API key saved to %s\n", path)
	return nil
}

func keyResetAction(ctx context.Context, cmd *cli.Command) error {
	cache, err := credential.NewDefault()
	if err != nil {
		return err
	}
	if err := cache.Reset(); err != nil {
		return err
	}

	fmt.Println("API key removed.")
	return nil
}

func keyStatusAction(ctx context.Context, cmd *cli.Command) error {
	cache, err := credential.NewDefault()
	if err != nil {
		return err
	}

	path, err := credential.DefaultPath()
	if err != nil {
		return err
	}

	_, ok, err := cache.Get()
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("API key present (%s)\n", path)
	} else {
		fmt.Printf("No API key stored (%s)\n", path)
	}
	return nil
}
