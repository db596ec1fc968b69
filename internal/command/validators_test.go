// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputValidator(t *testing.T) {
	for _, valid := range []string{"text", "json", "yaml", "raw"} {
		assert.NoError(t, OutputValidator(valid))
	}
	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(""))
}

func TestPlotValidator(t *testing.T) {
	assert.NoError(t, PlotValidator("short"))
	assert.NoError(t, PlotValidator("full"))
	assert.Error(t, PlotValidator("long"))
}

func TestFlagValidators_StopsAtFirstError(t *testing.T) {
	calls := 0
	counting := func(any) error {
		calls++
		return nil
	}
	assert.Error(t, FlagValidators("xml", OutputValidator, counting))
	assert.Equal(t, 0, calls)
}
