package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlendvay/hundred-days/internal/model"
)

func sampleEntries() []model.LogEntry {
	e1 := model.NewLogEntry(time.Date(2026, 5, 1, 18, 0, 0, 0, time.Local))
	e1.DayNumber = 1
	e1.Title = "Day 1"
	e1.Description = "got started"
	e1.Links = []string{"https://example.com/post"}
	e1.Metrics = model.CodeMetrics{Hours: 1.5, Keystrokes: 50, LinesAdded: 20}
	e1.Milestones = []int{1, 7}

	e2 := model.NewLogEntry(time.Date(2026, 5, 2, 18, 0, 0, 0, time.Local))
	e2.DayNumber = 2
	e2.Title = "Day 2"
	e2.Shared = true
	e2.Metrics = model.CodeMetrics{Hours: 2}
	return []model.LogEntry{e1, e2}
}

func TestRenderLogsJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderLogs(&buf, sampleEntries(), "json"))

	// The JSON view carries the full entries, not a flattened subset.
	var decoded []model.LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Day 1", decoded[0].Title)
	assert.Equal(t, "got started", decoded[0].Description)
	assert.Equal(t, []string{"https://example.com/post"}, decoded[0].Links)
	assert.Equal(t, 1.5, decoded[0].Metrics.Hours)
	assert.Equal(t, 50, decoded[0].Metrics.Keystrokes)
	assert.Equal(t, []int{1, 7}, decoded[0].Milestones)
	assert.True(t, decoded[1].Shared)
}

func TestRenderLogsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderLogs(&buf, sampleEntries(), "csv"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "day,date,title,hours,keystrokes,lines_added,shared", lines[0])
	assert.Equal(t, `1,2026-05-01,"Day 1",1.50,50,20,false`, lines[1])
	assert.Equal(t, `2,2026-05-02,"Day 2",2.00,0,0,true`, lines[2])
}

func TestRenderLogsMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderLogs(&buf, sampleEntries(), "md"))

	out := buf.String()
	assert.Contains(t, out, "Day   1")
	assert.Contains(t, out, "links: https://example.com/post")
	assert.Contains(t, out, "(shared)")

	buf.Reset()
	require.NoError(t, renderLogs(&buf, nil, "md"))
	assert.Contains(t, buf.String(), "No days logged yet")
}
