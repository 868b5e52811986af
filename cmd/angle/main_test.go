package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshot = `{
	"0xg1": {"address": "0xa1", "network": 1, "name": "sanUSDC_EUR", "tvl": 2500000, "apr": {"value": 0.031}},
	"0xg2": {"address": "0xb2", "network": 137, "name": "Uni-V3 agEUR/USDC LP", "apr": {"details": {"ANGLE - Tight range (+- 1%)": 0.18}}},
	"0xg3": {"address": "0xc3", "network": 1, "name": "ANGLE perp", "deprecated": true},
	"0xg4": {"address": "0xd4", "network": 42161, "name": "ANGLE perp", "apr": {"value": 0.2}}
}`

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestAPYCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(snapshot))
	}))
	defer srv.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "pools.jsonl")
	metricsFile := filepath.Join(dir, "angle.prom")
	stateFile := filepath.Join(dir, "state.json")

	root := newRootCmd()
	root.SetArgs([]string{"apy", "--endpoint", srv.URL, "--out", out, "--metrics-file", metricsFile, "--state-file", stateFile, "--log-level", "error"})
	require.NoError(t, root.Execute())

	state, err := os.ReadFile(stateFile)
	require.NoError(t, err)
	assert.Contains(t, string(state), `"pool_count":2`)

	lines := readLines(t, out)
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"pool":"0xa1-angle","chain":"Ethereum","project":"angle","symbol":"USDC","tvlUsd":2500000,"apyBase":0.031}`, lines[0])
	assert.JSONEq(t, `{"pool":"0xb2-angle","chain":"Polygon","project":"angle","symbol":"agEUR-USDC LP","tvlUsd":0,"apyBase":0.18}`, lines[1])

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "angle_pools_emitted 2")
	assert.Contains(t, string(prom), `angle_records_skipped{reason="deprecated"} 1`)
	assert.Contains(t, string(prom), `angle_records_skipped{reason="unknown_chain"} 1`)
}

func TestAPYCommandUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "pools.jsonl")
	metricsFile := filepath.Join(dir, "angle.prom")

	root := newRootCmd()
	root.SetArgs([]string{"apy", "--endpoint", srv.URL, "--out", out, "--metrics-file", metricsFile, "--log-level", "error"})
	root.SetErr(&bytes.Buffer{})
	require.Error(t, root.Execute())

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "angle_run_failures_total 1")
}

func TestNormalizeCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.json")
	out := filepath.Join(dir, "pools.jsonl")
	require.NoError(t, os.WriteFile(in, []byte(snapshot), 0o644))

	root := newRootCmd()
	root.SetArgs([]string{"normalize", "--in", in, "--out", out, "--log-level", "error"})
	require.NoError(t, root.Execute())

	lines := readLines(t, out)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"pool":"0xa1-angle"`)
}

func TestNormalizeCommandRequiresInput(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"normalize", "--log-level", "error"})
	root.SetErr(&bytes.Buffer{})
	assert.Error(t, root.Execute())
}

func TestInfoCommand(t *testing.T) {
	var buf bytes.Buffer
	root := newRootCmd()
	root.SetOut(&buf)
	root.SetArgs([]string{"info"})
	require.NoError(t, root.Execute())

	assert.Contains(t, buf.String(), "url: https://app.angle.money/#/earn")
	assert.Contains(t, buf.String(), "timetravel: false")
}
