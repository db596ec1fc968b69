// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	"movctl/internal/attrs"
)

const searchDoc = `{"Search":[
	{"Title":"Alien","Year":"1979","imdbID":"tt0078748","Type":"movie"},
	{"Title":"Aliens","Year":"1986","imdbID":"tt0090605","Type":"movie"},
	{"Title":"Alien: The Play","Year":"2019","imdbID":"tt10539608","Type":"movie"}],
	"totalResults":"3","Response":"True"}`

func searchAttrs(t *testing.T) attrs.AttrList {
	t.Helper()
	var al attrs.AttrList
	assert.NoError(t, al.Set("Title,Year,imdbID:id"))
	return al
}

func TestFilterDataset(t *testing.T) {
	dataset := gjson.Parse(searchDoc).Get("Search")
	al := searchAttrs(t)

	tests := []struct {
		name       string
		spec       string
		wantTitles []string
	}{
		{
			name:       "no filter keeps everything",
			spec:       "",
			wantTitles: []string{"Alien", "Aliens", "Alien: The Play"},
		},
		{
			name:       "equality",
			spec:       "Title=Alien",
			wantTitles: []string{"Alien"},
		},
		{
			name:       "contains",
			spec:       "Title~play",
			wantTitles: []string{"Alien: The Play"},
		},
		{
			name:       "negated contains",
			spec:       "Title!~play",
			wantTitles: []string{"Alien", "Aliens"},
		},
		{
			name:       "multiple filters and together",
			spec:       "Type=movie,Year=1986",
			wantTitles: []string{"Aliens"},
		},
		{
			name:       "invalid filter is skipped",
			spec:       "bogus",
			wantTitles: []string{"Alien", "Aliens", "Alien: The Play"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := FilterDataset(dataset, al, tt.spec)
			var titles []string
			for _, row := range rows {
				titles = append(titles, row["Title"].(string))
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestFilterDataset_SingleObjectBecomesOneRow(t *testing.T) {
	doc := gjson.Parse(`{"Title":"Alien","Year":"1979"}`)
	var al attrs.AttrList
	assert.NoError(t, al.Set("Title,Year"))

	rows := FilterDataset(doc, al, "")
	assert.Len(t, rows, 1)
	assert.Equal(t, "Alien", rows[0]["Title"])
}

func TestFilterDataset_RenamesOutputKey(t *testing.T) {
	dataset := gjson.Parse(searchDoc).Get("Search")
	rows := FilterDataset(dataset, searchAttrs(t), "Title=Alien")
	assert.Equal(t, "tt0078748", rows[0]["id"])
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"Title": "Aliens", "Year": "1986", "rating": "8.4"},
		{"Title": "Alien", "Year": "1979", "rating": "8.5"},
		{"Title": "Alien 3", "Year": "1992", "rating": "6.4"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{
			name:      "ascending by title",
			spec:      "Title",
			wantOrder: []string{"Alien", "Alien 3", "Aliens"},
		},
		{
			name:      "descending by year",
			spec:      "-Year",
			wantOrder: []string{"Alien 3", "Aliens", "Alien"},
		},
		{
			name:      "numeric rating descending",
			spec:      "-rating",
			wantOrder: []string{"Alien", "Aliens", "Alien 3"},
		},
		{
			name:      "empty spec preserves order",
			spec:      "",
			wantOrder: []string{"Aliens", "Alien", "Alien 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, want := range tt.wantOrder {
				assert.Equal(t, want, data[i]["Title"], "at index %d", i)
			}
		})
	}
}

func TestEmit_JSON(t *testing.T) {
	rows := []map[string]interface{}{
		{"Title": "Alien", "Year": "1979"},
	}

	var buf bytes.Buffer
	assert.NoError(t, Emit(rows, nil, Options{Format: "json"}, &buf))

	var decoded []map[string]interface{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rows, decoded)
}

func TestEmit_YAML(t *testing.T) {
	rows := []map[string]interface{}{
		{"Title": "Alien"},
	}

	var buf bytes.Buffer
	assert.NoError(t, Emit(rows, nil, Options{Format: "yaml"}, &buf))
	assert.Contains(t, buf.String(), "Title: Alien")
}

func TestEmit_Text(t *testing.T) {
	var al attrs.AttrList
	assert.NoError(t, al.Set("Title,Year"))
	rows := []map[string]interface{}{
		{"Title": "Alien", "Year": "1979"},
		{"Title": "Aliens", "Year": "1986"},
	}

	var buf bytes.Buffer
	assert.NoError(t, Emit(rows, al, Options{Format: "text", Titles: true}, &buf))

	out := buf.String()
	assert.Contains(t, out, "Alien")
	assert.Contains(t, out, "1986")
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Year")
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "empty string uses emptyVal", value: "", emptyVal: "-", want: "-"},
		{name: "nil", value: nil, want: ""},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false is zero value", value: false, want: ""},
		{name: "small int float", value: 42.0, want: "42"},
		{name: "large int float humanized", value: 922549.0, want: "922,549"},
		{name: "fractional float", value: 8.5, want: "8.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, interfaceToString(tt.value, tt.emptyVal))
		})
	}
}

func TestBuildFilters(t *testing.T) {
	filters := BuildFilters("Title~alien,Year!=1979")
	assert.Len(t, filters, 2)
	assert.Equal(t, Filter{Key: "Title", Operand: "~", Target: "alien"}, filters[0])
	assert.Equal(t, Filter{Key: "Year", Negate: true, Operand: "=", Target: "1979"}, filters[1])
}
