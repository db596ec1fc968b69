// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package command defines the CLI command set for movctl. It wires flags,
// validators, actions, and the API-key acquisition flow for subcommands.
package command
