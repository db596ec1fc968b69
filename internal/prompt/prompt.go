// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package prompt is the only place movctl talks to the user interactively.
// The credential cache deliberately knows nothing about prompting; commands
// call in here when the cache comes up empty.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrDeclined means the user chose not to provide a value. Callers abort
// their own operation; nothing is saved.
var ErrDeclined = errors.New("no API key provided")

var labelStyle = lipgloss.NewStyle().Bold(true)

// APIKey asks the user for an OMDb API key. Under a TTY this runs a masked
// textinput; otherwise one line is read from stdin so piped invocations
// still work. Esc/ctrl-c or an empty answer return ErrDeclined.
func APIKey(ctx context.Context) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return readKey(os.Stdin)
	}

	// The prompt renders on stderr so a redirected stdout only ever carries
	// query output.
	p := tea.NewProgram(newKeyModel(), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(keyModel)
	if !ok || m.aborted {
		return "", ErrDeclined
	}

	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return "", ErrDeclined
	}
	return value, nil
}

// readKey is the non-interactive path: one line, trimmed.
func readKey(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	value := strings.TrimSpace(line)
	if value == "" {
		return "", ErrDeclined
	}
	return value, nil
}

type keyModel struct {
	input   textinput.Model
	done    bool
	aborted bool
}

func newKeyModel() keyModel {
	ti := textinput.New()
	ti.Placeholder = "OMDb API key"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '*'
	ti.CharLimit = 64 //nolint:mnd
	ti.Focus()
	return keyModel{input: ti}
}

func (m keyModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m keyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m keyModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return labelStyle.Render("movctl needs an OMDb API key (https://omdbapi.com/apikey.aspx)") +
		"\n" + m.input.View() + "\n"
}
