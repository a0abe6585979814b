package kafkactrl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/heliotherm-dev/heliotherm/internal/simulator"
	"github.com/heliotherm-dev/heliotherm/internal/solar"
	"github.com/heliotherm-dev/heliotherm/internal/testutil"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.msgs)
}

func (w *fakeWriter) first() kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.msgs[0]
}

func (w *fakeWriter) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// syncSvc is a minimal thread-safe service for exercising the Run loop.
type syncSvc struct {
	mu   sync.Mutex
	snap simulator.Snapshot
	res  solar.Result
}

func (s *syncSvc) Get() simulator.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *syncSvc) Params() solar.Params { return solar.DefaultParams() }

func (s *syncSvc) Result() solar.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.res
}

func (s *syncSvc) SetParam(string, float64) error { return nil }
func (s *syncSvc) Apply(solar.Params) error       { return nil }

func (s *syncSvc) setRunID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.RunID = id
}

func TestNewDefaults(t *testing.T) {
	svc := testutil.NewFakeSimulatorService()

	c, err := New(svc, Config{DeviceID: "roof1", Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatal(err)
	}
	if c.cfg.Topic != "heliotherm.samples" {
		t.Fatalf("expected default topic, got %q", c.cfg.Topic)
	}
	if c.cfg.PollInterval != 1*time.Second {
		t.Fatalf("expected default poll interval, got %v", c.cfg.PollInterval)
	}
}

func TestNewValidation(t *testing.T) {
	svc := testutil.NewFakeSimulatorService()

	if _, err := New(svc, Config{Brokers: []string{"localhost:9092"}}); err == nil {
		t.Fatal("expected error when DeviceID missing")
	}
	if _, err := New(svc, Config{DeviceID: "roof1"}); err == nil {
		t.Fatal("expected error when Brokers missing")
	}
}

func TestPublishRun(t *testing.T) {
	svc := testutil.NewFakeSimulatorService()
	c, err := New(svc, Config{DeviceID: "roof1", Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatal(err)
	}
	w := &fakeWriter{}
	c.w = w

	id, err := c.publishRun(context.Background())
	if err != nil {
		t.Fatalf("publishRun: %v", err)
	}
	if id != "run-1" {
		t.Fatalf("expected published run ID run-1, got %q", id)
	}

	wantSamples := 0
	for _, s := range svc.Res.Tank {
		wantSamples += len(s.Points)
	}
	if w.count() != wantSamples {
		t.Fatalf("expected %d messages, got %d", wantSamples, w.count())
	}

	first := w.first()
	var got Sample
	if err := json.Unmarshal(first.Value, &got); err != nil {
		t.Fatalf("invalid sample json: %v", err)
	}
	if got.DeviceID != "roof1" {
		t.Fatalf("expected deviceId=roof1, got %q", got.DeviceID)
	}
	if got.RunID != "run-1" {
		t.Fatalf("expected runId=run-1, got %q", got.RunID)
	}
	if got.Series != solar.SeriesTankTemp {
		t.Fatalf("expected series %q, got %q", solar.SeriesTankTemp, got.Series)
	}
	if string(first.Key) != "roof1" {
		t.Fatalf("expected messages keyed by device ID, got %q", first.Key)
	}
}

func TestPublishRunPropagatesWriteError(t *testing.T) {
	svc := testutil.NewFakeSimulatorService()
	c, _ := New(svc, Config{DeviceID: "roof1", Brokers: []string{"localhost:9092"}})
	c.w = &fakeWriter{err: errors.New("broker down")}

	if _, err := c.publishRun(context.Background()); err == nil {
		t.Fatal("expected write error")
	}
}

// advancingSvc hands out a fresh run ID on every Get, like a simulator being
// reconfigured while the publisher works.
type advancingSvc struct {
	mu sync.Mutex
	n  int
}

func (s *advancingSvc) Get() simulator.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return simulator.Snapshot{RunID: fmt.Sprintf("run-%d", s.n)}
}

func (s *advancingSvc) Params() solar.Params { return solar.DefaultParams() }

func (s *advancingSvc) Result() solar.Result {
	return solar.Result{
		Tank: []solar.Series{
			{Name: solar.SeriesTankTemp, Points: []solar.Point{{Hour: 0, Value: 20}}},
		},
	}
}

func (s *advancingSvc) SetParam(string, float64) error { return nil }
func (s *advancingSvc) Apply(solar.Params) error       { return nil }

func TestPublishRunReturnsPublishedRunID(t *testing.T) {
	c, _ := New(&advancingSvc{}, Config{DeviceID: "roof1", Brokers: []string{"localhost:9092"}})
	w := &fakeWriter{}
	c.w = w

	id, err := c.publishRun(context.Background())
	if err != nil {
		t.Fatalf("publishRun: %v", err)
	}

	// The returned ID must match the run the samples were taken from, even
	// when newer runs appear before the caller looks again.
	var got Sample
	if err := json.Unmarshal(w.first().Value, &got); err != nil {
		t.Fatalf("invalid sample json: %v", err)
	}
	if got.RunID != id {
		t.Fatalf("published runId %q but reported %q", got.RunID, id)
	}
}

func TestRunPublishesNewRuns(t *testing.T) {
	svc := &syncSvc{
		snap: simulator.Snapshot{RunID: "run-1"},
		res: solar.Result{
			Tank: []solar.Series{
				{Name: solar.SeriesTankTemp, Points: []solar.Point{{Hour: 0, Value: 20}}},
			},
		},
	}
	c, _ := New(svc, Config{
		DeviceID:     "roof1",
		Brokers:      []string{"localhost:9092"},
		PollInterval: 10 * time.Millisecond,
	})
	w := &fakeWriter{}
	c.w = w

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = c.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	initial := w.count()
	if initial == 0 {
		t.Fatal("expected the current run to be published at startup")
	}

	// same run ID: no re-publish
	time.Sleep(30 * time.Millisecond)
	if w.count() != initial {
		t.Fatalf("expected no re-publish for an unchanged run, got %d extra", w.count()-initial)
	}

	// new run ID: published once more
	svc.setRunID("run-2")
	time.Sleep(50 * time.Millisecond)
	if w.count() <= initial {
		t.Fatal("expected the new run to be published")
	}

	cancel()
	<-done
	if !w.isClosed() {
		t.Fatal("expected writer to be closed on shutdown")
	}
}
