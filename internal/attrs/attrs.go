// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package attrs parses --attrs specifications into the attribute list the
// output layer projects result documents through.
package attrs

import (
	"strings"
)

// Attr represents one key to be included in the output. These are identified
// by their JSON document key, thus the name.
type Attr struct {
	// The JSON key to extract from the result document. gjson path syntax,
	// so nested keys like "Ratings.0.Value" work.
	Key string
	// The key to use in the output. This is also the column title when
	// output=text. Defaults to the last path segment of Key.
	OutputKey string
}

type AttrList []Attr

// String returns a representation matching the original --attrs format.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, attr.Key+":"+attr.OutputKey)
	}
	return strings.Join(result, ",")
}

// Set parses each spec from the --attrs flag and appends it to the AttrList.
// Each comma-separated spec is KEY or KEY:OUTPUT. A duplicate key replaces
// nothing; the first occurrence wins.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}

		attr := Attr{Key: spec}
		if key, output, found := strings.Cut(spec, ":"); found {
			attr.Key = key
			attr.OutputKey = output
		}
		if attr.OutputKey == "" {
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		}

		if a.has(attr.Key) {
			continue
		}
		*a = append(*a, attr)
	}

	return nil
}

func (a *AttrList) has(key string) bool {
	for _, attr := range *a {
		if attr.Key == key {
			return true
		}
	}
	return false
}
