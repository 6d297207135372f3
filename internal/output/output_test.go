package output

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/segmentio/kafka-go"

	"intraday-arb/internal/config"
	"intraday-arb/internal/intraday"
	"intraday-arb/internal/model"
)

var windowStart = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func sampleResult() *intraday.Result {
	deliveryEnd := time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)
	leg := func(price float64) model.Leg {
		return model.Leg{
			Product:         model.ProductCodeFor(deliveryEnd, 60),
			Time:            windowStart.Add(time.Minute),
			Price:           price,
			Volume:          5,
			AvailableVolume: 5,
			DeliveryStart:   deliveryEnd.Add(-time.Hour),
			DeliveryEnd:     deliveryEnd,
		}
	}
	return &intraday.Result{
		ID:        "scan-1",
		CreatedAt: windowStart.Add(time.Hour),
		Opportunities: []model.Opportunity{
			{
				WindowStart:      windowStart,
				WindowEnd:        windowStart.Add(5 * time.Minute),
				AskLegs:          []model.Leg{leg(40)},
				BidLegs:          []model.Leg{leg(100)},
				AskWeightedPrice: 40,
				BidWeightedPrice: 100,
				Spread:           60,
				Profit:           300,
			},
		},
	}
}

func TestFileSink(t *testing.T) {
	dir := t.TempDir() + "/out"
	s := NewFileSink(dir)
	if err := s.Write(context.Background(), sampleResult()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	raw, err := os.ReadFile(s.JSONPath())
	if err != nil {
		t.Fatal(err)
	}
	var opps []model.Opportunity
	if err := json.Unmarshal(raw, &opps); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(opps) != 1 || opps[0].Spread != 60 {
		t.Fatalf("opportunities = %+v", opps)
	}
	csvRaw, err := os.ReadFile(s.CSVPath())
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(csvRaw), "\n"); lines != 3 {
		t.Fatalf("csv has %d lines, want header + 2 legs", lines)
	}
}

type fakeS3 struct {
	keys   []string
	bodies map[string]string
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	if f.bodies == nil {
		f.bodies = map[string]string{}
	}
	f.keys = append(f.keys, *in.Key)
	f.bodies[*in.Key] = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink(t *testing.T) {
	fake := &fakeS3{}
	s := NewS3SinkWithClient(fake, "bucket", "intraday/")
	if err := s.Write(context.Background(), sampleResult()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := []string{"intraday/scan-1/trading_opportunities.json", "intraday/scan-1/trading_opportunities.csv"}
	if strings.Join(fake.keys, ",") != strings.Join(want, ",") {
		t.Fatalf("keys = %v, want %v", fake.keys, want)
	}
	if !strings.Contains(fake.bodies[want[0]], `"ask_trades"`) {
		t.Fatalf("json body = %s", fake.bodies[want[0]])
	}

	fake.err = errors.New("denied")
	if err := s.Write(context.Background(), sampleResult()); err == nil {
		t.Fatalf("expected error from PutObject")
	}
}

func TestNormaliseEndpoint(t *testing.T) {
	cases := map[string]string{
		"minio:9000":             "https://minio:9000",
		"localhost:9000":         "https://localhost:9000",
		"r2.example.com":         "https://r2.example.com",
		"http://minio:9000":      "http://minio:9000",
		"https://s3.example.com": "https://s3.example.com",
	}
	for in, want := range cases {
		if got := normaliseEndpoint(in); got != want {
			t.Errorf("normaliseEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSink(t *testing.T) {
	w := &fakeWriter{}
	s := NewKafkaSinkWithWriter(w, "intraday.opportunities")
	if err := s.Write(context.Background(), sampleResult()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "2024-01-01T08:00:00Z" {
		t.Fatalf("key = %s", w.msgs[0].Key)
	}
	var msg OpportunityMessage
	if err := json.Unmarshal(w.msgs[0].Value, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.ScanID != "scan-1" || msg.Opportunity.Profit != 300 {
		t.Fatalf("message = %+v", msg)
	}

	empty := &intraday.Result{ID: "none"}
	if err := s.Write(context.Background(), empty); err != nil || len(w.msgs) != 1 {
		t.Fatalf("empty result should publish nothing: err=%v msgs=%d", err, len(w.msgs))
	}

	if err := (Multi{s}).Close(); err != nil || !w.closed {
		t.Fatalf("close: err=%v closed=%v", err, w.closed)
	}
}

type failingSink struct{ calls *[]string }

func (f failingSink) Name() string { return "failing" }
func (f failingSink) Write(context.Context, *intraday.Result) error {
	*f.calls = append(*f.calls, "failing")
	return errors.New("boom")
}

type recordingSink struct{ calls *[]string }

func (r recordingSink) Name() string { return "recording" }
func (r recordingSink) Write(context.Context, *intraday.Result) error {
	*r.calls = append(*r.calls, "recording")
	return nil
}

func TestMultiStopsAtFirstError(t *testing.T) {
	var calls []string
	m := Multi{recordingSink{&calls}, failingSink{&calls}, recordingSink{&calls}}
	err := m.Write(context.Background(), sampleResult())
	if err == nil || !strings.Contains(err.Error(), "failing sink") {
		t.Fatalf("err = %v", err)
	}
	if strings.Join(calls, ",") != "recording,failing" {
		t.Fatalf("calls = %v", calls)
	}
}

func TestBuild(t *testing.T) {
	cfg := config.Defaults().Output
	cfg.Dir = t.TempDir()
	sinks, err := Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(sinks) != 1 || sinks[0].Name() != "file" {
		t.Fatalf("sinks = %v", sinks)
	}

	cfg.Kafka.Enabled = true
	if _, err := Build(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for kafka without brokers")
	}
}
