// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"os"
	"regexp"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"movctl/internal/attrs"
)

// filterRegex parses a filter expression into key, operator, and target.
// The operator may be negated with a leading !.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=~])(.*)$`)

// Filter represents a single parsed --filter expression including the key,
// operand, optional negation and target value.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs (unsupported operand or malformed expression) are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("MOVCTL_FILTER_DELIM"); ok {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		negate := strings.HasPrefix(parts[2], "!")
		if negate {
			parts[2] = strings.TrimPrefix(parts[2], "!")
		}

		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: parts[2],
			Target:  parts[3],
		})
	}

	return filters
}

// FilterDataset projects the candidate document through the attribute list,
// keeping only rows that pass every filter. A non-array candidate is treated
// as a single-row dataset.
func FilterDataset(candidates gjson.Result, al attrs.AttrList, spec string) []map[string]interface{} {
	//nolint:prealloc
	var filteredResults []map[string]interface{}

	filters := BuildFilters(spec)

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, filters) {
			continue
		}

		result := make(map[string]interface{})
		for _, attr := range al {
			result[attr.OutputKey] = candidate.Get(attr.Key).Value()
		}
		filteredResults = append(filteredResults, result)
	}

	return filteredResults
}

// applyFilters returns true when the candidate satisfies every filter.
func applyFilters(candidate gjson.Result, filters []Filter) bool {
	for _, f := range filters {
		value := candidate.Get(f.Key).String()

		var match bool
		switch f.Operand {
		case "=":
			match = strings.EqualFold(value, f.Target)
		case "~":
			match = strings.Contains(strings.ToLower(value), strings.ToLower(f.Target))
		}

		if match == f.Negate {
			return false
		}
	}
	return true
}
