package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"
)

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func TestTimerLifecycle(t *testing.T) {
	f := newFixture(t)
	p := f.seedProject(t, "side project")

	resp, body := doJSON(t, http.MethodPost, f.server.URL+"/api/timer/start", map[string]string{
		"project_id": p.ID,
		"kind":       "building",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("start status = %d, body %s", resp.StatusCode, body)
	}

	var state timerStateResponse
	if err := json.Unmarshal(body, &state); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if !state.Running || state.ProjectID != p.ID || state.Kind != "building" {
		t.Errorf("unexpected state after start: %+v", state)
	}

	f.clock.advance(40 * time.Minute)

	resp, body = doJSON(t, http.MethodPost, f.server.URL+"/api/timer/tick", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tick status = %d, body %s", resp.StatusCode, body)
	}
	var tick timerTickResponse
	if err := json.Unmarshal(body, &tick); err != nil {
		t.Fatalf("unmarshal tick: %v", err)
	}
	if tick.ElapsedSeconds != 2400 {
		t.Errorf("ElapsedSeconds = %d, want 2400", tick.ElapsedSeconds)
	}
	if tick.Nudge != nil {
		t.Errorf("unexpected nudge at 40min: %+v", tick.Nudge)
	}

	resp, body = doJSON(t, http.MethodPost, f.server.URL+"/api/timer/stop", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stop status = %d, body %s", resp.StatusCode, body)
	}

	got, err := f.projects.GetByID(t.Context(), p.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	want := 40.0 / 60.0
	if diff := got.BuildingHours - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("BuildingHours = %v, want %v", got.BuildingHours, want)
	}

	resp, body = doJSON(t, http.MethodGet, f.server.URL+"/api/timer", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("state status = %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &state); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if state.Running {
		t.Errorf("timer should be idle after stop")
	}
}

func TestTimerStartConflicts(t *testing.T) {
	f := newFixture(t)
	p := f.seedProject(t, "only one at a time")

	resp, _ := doJSON(t, http.MethodPost, f.server.URL+"/api/timer/start", map[string]string{
		"project_id": p.ID, "kind": "debugging",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first start status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, f.server.URL+"/api/timer/start", map[string]string{
		"project_id": p.ID, "kind": "building",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second start status = %d, want 409", resp.StatusCode)
	}
}

func TestTimerStartValidation(t *testing.T) {
	f := newFixture(t)
	p := f.seedProject(t, "p")

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"unknown kind", map[string]string{"project_id": p.ID, "kind": "thinking"}, http.StatusBadRequest},
		{"missing project", map[string]string{"project_id": "nope", "kind": "building"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodPost, f.server.URL+"/api/timer/start", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.want, body)
			}
		})
	}
}

func TestTimerCutoffOverHTTP(t *testing.T) {
	f := newFixture(t)
	p := f.seedProject(t, "stuck on a bug")

	doJSON(t, http.MethodPost, f.server.URL+"/api/timer/start", map[string]string{
		"project_id": p.ID, "kind": "debugging",
	})

	f.clock.advance(90 * time.Minute)

	resp, body := doJSON(t, http.MethodPost, f.server.URL+"/api/timer/tick", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tick status = %d, body %s", resp.StatusCode, body)
	}
	var tick timerTickResponse
	if err := json.Unmarshal(body, &tick); err != nil {
		t.Fatalf("unmarshal tick: %v", err)
	}
	if tick.Nudge == nil || tick.Nudge.Effect != "notify_and_stop" {
		t.Fatalf("expected cutoff nudge, got %+v", tick.Nudge)
	}
	if !tick.Stopped {
		t.Errorf("session should have been auto-stopped")
	}

	got, err := f.projects.GetByID(t.Context(), p.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if diff := got.DebuggingHours - 1.5; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("DebuggingHours = %v, want 1.5", got.DebuggingHours)
	}
}

func TestTimerStopFailurePreservesSession(t *testing.T) {
	f := newFixture(t)
	p := f.seedProject(t, "flaky storage")

	doJSON(t, http.MethodPost, f.server.URL+"/api/timer/start", map[string]string{
		"project_id": p.ID, "kind": "building",
	})
	f.clock.advance(20 * time.Minute)

	f.timeLogs.failClose = true
	resp, body := doJSON(t, http.MethodPost, f.server.URL+"/api/timer/stop", nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("failed stop status = %d, body %s", resp.StatusCode, body)
	}
	var failure map[string]any
	if err := json.Unmarshal(body, &failure); err != nil {
		t.Fatalf("unmarshal failure: %v", err)
	}
	if failure["session_preserved"] != true {
		t.Errorf("failure body should flag session_preserved, got %v", failure)
	}

	// The session survived; elapsed time keeps accruing and the retry
	// closes the record with the recomputed duration.
	f.clock.advance(5 * time.Minute)
	resp, body = doJSON(t, http.MethodPost, f.server.URL+"/api/timer/stop", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("retry stop status = %d, body %s", resp.StatusCode, body)
	}

	got, err := f.projects.GetByID(t.Context(), p.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	want := 25.0 / 60.0
	if diff := got.BuildingHours - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("BuildingHours = %v, want %v", got.BuildingHours, want)
	}
}

func TestTimerExtend(t *testing.T) {
	f := newFixture(t)
	p := f.seedProject(t, "deliberately deep dive")

	resp, _ := doJSON(t, http.MethodPost, f.server.URL+"/api/timer/extend", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("extend while idle status = %d, want 409", resp.StatusCode)
	}

	doJSON(t, http.MethodPost, f.server.URL+"/api/timer/start", map[string]string{
		"project_id": p.ID, "kind": "debugging",
	})
	resp, body := doJSON(t, http.MethodPost, f.server.URL+"/api/timer/extend", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("extend status = %d", resp.StatusCode)
	}
	var state timerStateResponse
	if err := json.Unmarshal(body, &state); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if !state.ExtendedMode {
		t.Errorf("extended_mode should be set")
	}

	// No forced stop past the cutoff in extended mode.
	f.clock.advance(2 * time.Hour)
	resp, body = doJSON(t, http.MethodPost, f.server.URL+"/api/timer/tick", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tick status = %d", resp.StatusCode)
	}
	var tick timerTickResponse
	if err := json.Unmarshal(body, &tick); err != nil {
		t.Fatalf("unmarshal tick: %v", err)
	}
	if tick.Stopped {
		t.Errorf("extended session must not be auto-stopped")
	}
}

func TestLearningSessionWithoutProject(t *testing.T) {
	f := newFixture(t)

	resp, body := doJSON(t, http.MethodPost, f.server.URL+"/api/timer/start", map[string]string{
		"kind": "learning",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("learning start status = %d, body %s", resp.StatusCode, body)
	}

	f.clock.advance(30 * time.Minute)
	resp, _ = doJSON(t, http.MethodPost, f.server.URL+"/api/timer/stop", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("learning stop status = %d", resp.StatusCode)
	}

	logs, err := f.timeLogs.ListByUser(t.Context(), testUserID, 0)
	if err != nil {
		t.Fatalf("list time logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d time logs, want 1", len(logs))
	}
	if logs[0].Open() {
		t.Errorf("learning time log should be closed")
	}
	if logs[0].DurationMinutes == nil || *logs[0].DurationMinutes != 30 {
		t.Errorf("DurationMinutes = %v, want 30", logs[0].DurationMinutes)
	}
}

func TestTickWhileIdle(t *testing.T) {
	f := newFixture(t)

	resp, _ := doJSON(t, http.MethodPost, f.server.URL+"/api/timer/tick", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("tick while idle status = %d, want 409", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodPost, f.server.URL+"/api/timer/stop", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("stop while idle status = %d, want 409", resp.StatusCode)
	}
}
