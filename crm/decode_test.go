package crm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })
	return &buf
}

func TestDecodeLeads_LogsSkippedRows(t *testing.T) {
	buf := captureLog(t)

	leads, err := DecodeLeads([]byte(`[{"id": 1, "name": "Ana"}, {"name": "no id"}]`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(leads) != 1 || leads[0].ID != 1 {
		t.Errorf("Expected only lead 1, got %+v", leads)
	}

	output := buf.String()
	if !strings.Contains(output, "Skipping malformed lead record") {
		t.Errorf("Expected a warning for the skipped lead, got %q", output)
	}
	if !strings.Contains(output, `"level":"warn"`) {
		t.Errorf("Expected warn level, got %q", output)
	}
}

func TestDecodeInteractions_LogsSkippedRows(t *testing.T) {
	buf := captureLog(t)

	interactions, err := DecodeInteractions([]byte(`[
		{"id": 10, "lead_id": 7, "content": "hi"},
		{"id": 11, "content": "orphan"},
		{"lead_id": 7, "content": "no id"}
	]`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(interactions) != 1 || interactions[0].ID != 10 {
		t.Errorf("Expected only interaction 10, got %+v", interactions)
	}

	if got := strings.Count(buf.String(), "Skipping malformed interaction record"); got != 2 {
		t.Errorf("Expected 2 warnings, got %d in %q", got, buf.String())
	}
}

func TestDecodeLeads_CleanInputLogsNothing(t *testing.T) {
	buf := captureLog(t)

	if _, err := DecodeLeads([]byte(`{"list": [{"id": 1}]}`)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no log output, got %q", buf.String())
	}
}
