// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"movctl/internal/attrs"
)

// Options are the output knobs extracted from command flags.
type Options struct {
	Format string
	Titles bool
	Color  bool
}

// Spit orchestrates filtering, sorting and rendering of a result document
// according to command flags and attribute specifications. parent selects a
// sub-document ("Search" for search results, "" for the whole document).
func Spit(raw bytes.Buffer, al attrs.AttrList, cmd *cli.Command, parent string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	// If raw, just dump it and go home.
	format := cmd.String("output")
	if format == "raw" {
		_, err := w.Write(raw.Bytes())
		return err
	}

	dataset := gjson.ParseBytes(raw.Bytes())
	if parent != "" {
		dataset = dataset.Get(parent)
	}

	rows := FilterDataset(dataset, al, cmd.String("filter"))
	SortDataset(rows, cmd.String("sort"))

	return Emit(rows, al, Options{
		Format: format,
		Titles: cmd.Bool("titles"),
		Color:  cmd.Bool("color"),
	}, w)
}

// Emit renders the prepared rows in the requested format.
func Emit(rows []map[string]interface{}, al attrs.AttrList, opts Options, w io.Writer) error {
	switch opts.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		data, err := yaml.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return emitText(rows, al, opts, w)
	}
}

// emitText renders rows as a borderless lipgloss table, one column per attr.
func emitText(rows []map[string]interface{}, al attrs.AttrList, opts Options, w io.Writer) error {
	trows := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(al))
		for _, attr := range al {
			cells = append(cells, interfaceToString(row[attr.OutputKey], ""))
		}
		trows = append(trows, cells)
	}

	t := table.New().
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Rows(trows...)

	if opts.Titles {
		headers := make([]string, 0, len(al))
		for _, attr := range al {
			h := attr.OutputKey
			if opts.Color {
				h = lipgloss.NewStyle().Bold(true).Render(h)
			}
			headers = append(headers, h)
		}
		t = t.Headers(headers...).BorderHeader(false)
	}

	_, err := fmt.Fprintln(w, t)
	return err
}

// SortDataset sorts rows in place by a comma-separated spec of output keys.
// A leading "-" on a key reverses that key's order. Numeric values compare
// numerically, everything else as case-folded strings.
func SortDataset(rows []map[string]interface{}, spec string) {
	if spec == "" {
		return
	}

	type sortKey struct {
		key  string
		desc bool
	}

	//nolint:prealloc
	var keys []sortKey
	for _, k := range strings.Split(spec, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		desc := strings.HasPrefix(k, "-")
		keys = append(keys, sortKey{key: strings.TrimPrefix(k, "-"), desc: desc})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, sk := range keys {
			cmp := compareValues(rows[i][sk.key], rows[j][sk.key])
			if cmp == 0 {
				continue
			}
			if sk.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// compareValues returns -1/0/1. Values that both parse as numbers compare
// numerically so "9.2" sorts below "10".
func compareValues(a, b interface{}) int {
	as := interfaceToString(a, "")
	bs := interfaceToString(b, "")

	af, aerr := strconv.ParseFloat(strings.ReplaceAll(as, ",", ""), 64)
	bf, berr := strconv.ParseFloat(strings.ReplaceAll(bs, ",", ""), 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(strings.ToLower(as), strings.ToLower(bs))
}

// interfaceToString renders a cell value. Zero values render as emptyVal.
// Large round numbers are humanized for text output.
func interfaceToString(value interface{}, emptyVal string) string {
	switch v := value.(type) {
	case nil:
		return emptyVal
	case string:
		if v == "" {
			return emptyVal
		}
		return v
	case bool:
		if !v {
			return emptyVal
		}
		return "true"
	case float64:
		if v == math.Trunc(v) {
			if math.Abs(v) >= 10000 { //nolint:mnd
				return humanize.Comma(int64(v))
			}
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
