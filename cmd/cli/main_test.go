package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (map[string]interface{}, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{name}, args...))
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &result), out.String())
	return result, nil
}

func TestHumanityCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantHuman bool
	}{
		{name: "human", args: []string{"humanity", "--correct", "61", "--matches", "100", "--latency", "501"}, wantHuman: true},
		{name: "at accuracy threshold", args: []string{"humanity", "--correct", "60", "--matches", "100", "--latency", "501"}},
		{name: "at latency ceiling", args: []string{"humanity", "--correct", "80", "--matches", "100", "--latency", "240000"}},
		{name: "widened ceiling", args: []string{"--max-latency", "300000", "humanity", "--correct", "80", "--matches", "100", "--latency", "240000"}, wantHuman: true},
		{name: "hex input", args: []string{"h", "--correct", "0x3d", "--matches", "0x64", "--latency", "0x1f5"}, wantHuman: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := runApp(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHuman, result["human"])
		})
	}
}

func TestDeceptionCommand(t *testing.T) {
	result, err := runApp(t, "deception", "--fooled", "30", "--total", "200")
	require.NoError(t, err)
	assert.Equal(t, "15", result["rating"])

	result, err = runApp(t, "--ratio", "clamp", "d", "--fooled", "200", "--total", "100")
	require.NoError(t, err)
	assert.Equal(t, "100", result["rating"])
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad number", args: []string{"deception", "--fooled", "x", "--total", "1"}},
		{name: "unknown policy", args: []string{"--overflow", "explode", "deception", "--fooled", "1", "--total", "1"}},
		{name: "ratio rejected", args: []string{"--ratio", "reject", "deception", "--fooled", "2", "--total", "1"}},
		{name: "inverted window", args: []string{"--min-latency", "900", "--max-latency", "800", "humanity", "--correct", "1", "--matches", "1", "--latency", "850"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
