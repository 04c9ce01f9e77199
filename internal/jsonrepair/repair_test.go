package jsonrepair

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json fence",
			in:   "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding prose",
			in:   "Here is the record:\n{\"a\": 1}\nHope this helps!",
			want: `{"a": 1}`,
		},
		{
			name: "clean input untouched",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestRepairTrailingCommas(t *testing.T) {
	got := Repair(`{"a": 1, "b": [2, 3,],}`)
	assert.JSONEq(t, `{"a": 1, "b": [2, 3]}`, got)
}

func TestRepairUnbalancedBrackets(t *testing.T) {
	got := Repair(`{"a": {"b": [1, 2`)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.JSONEq(t, `{"a": {"b": [1, 2]}}`, got)
}

func TestRepairDropsMismatchedCloser(t *testing.T) {
	got := Repair(`{"a": 1]}`)
	assert.JSONEq(t, `{"a": 1}`, got)
}

func TestRepairInnerQuotes(t *testing.T) {
	got := Repair(`{"note": "pacientul spune "nu dorm" noaptea"}`)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.Equal(t, `pacientul spune "nu dorm" noaptea`, parsed["note"])
}

func TestRepairUnterminatedString(t *testing.T) {
	got := Repair(`{"note": "text cut off`)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	assert.Equal(t, "text cut off", parsed["note"])
}

func TestRepairPreservesEscapes(t *testing.T) {
	in := `{"note": "linia unu\nlinia doi \"citat\""}`
	got := Repair(in)
	assert.Equal(t, in, got)
}

func TestRepairCombined(t *testing.T) {
	in := "```json\n" + `{"diagnosis": {"main": "HTA", "additional": ["DZ tip 2",` + "\n```"
	got := Repair(StripFences(in))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &parsed))
	diagnosis := parsed["diagnosis"].(map[string]any)
	assert.Equal(t, "HTA", diagnosis["main"])
	assert.Equal(t, []any{"DZ tip 2"}, diagnosis["additional"])
}
