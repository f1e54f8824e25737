package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestFromCarriesCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutputForTests(&buf)
	defer restore()

	ctx := WithCorrelation(context.Background(), Correlation{
		SessionID: "sess-1",
		Scenario:  "walkthrough",
		Step:      "load app",
	})
	From(ctx).Info("step started")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (raw: %s)", err, buf.String())
	}
	if entry["session_id"] != "sess-1" {
		t.Errorf("session_id = %v, want sess-1", entry["session_id"])
	}
	if entry["scenario"] != "walkthrough" {
		t.Errorf("scenario = %v, want walkthrough", entry["scenario"])
	}
	if entry["step"] != "load app" {
		t.Errorf("step = %v, want load app", entry["step"])
	}
	if entry["msg"] != "step started" {
		t.Errorf("msg = %v, want step started", entry["msg"])
	}
}

func TestWithCorrelationMergesIntoExisting(t *testing.T) {
	ctx := WithCorrelation(context.Background(), Correlation{SessionID: "sess-2"})
	ctx = WithCorrelation(ctx, Correlation{Scenario: "recording", Step: "start recording"})

	corr := CorrelationFromContext(ctx)
	if corr.SessionID != "sess-2" {
		t.Errorf("SessionID = %q, want sess-2", corr.SessionID)
	}
	if corr.Scenario != "recording" || corr.Step != "start recording" {
		t.Errorf("merge lost fields: %+v", corr)
	}
}

func TestFromWithoutCorrelationLogsBare(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutputForTests(&buf)
	defer restore()

	From(context.Background()).Info("bare")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if _, ok := entry["session_id"]; ok {
		t.Error("bare log carries session_id")
	}
}
