// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package version holds the movctl release version. It is overridden at
// build time via -ldflags "-X movctl/internal/version.Version=...".
package version

var Version = "0.3.0-dev"
