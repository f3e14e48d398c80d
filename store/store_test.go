package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/coaster/ride"
)

func openMemory(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(zerolog.Nop())
	if err := m.OpenSQLite(""); err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// TestSaveAndLoadRuns verifies runs round trip with their full measurements
func TestSaveAndLoadRuns(t *testing.T) {
	m := openMemory(t)
	ctx := context.Background()
	if !m.Local {
		t.Fatal("OpenSQLite did not mark the manager local")
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		res := ride.TestResult{
			Ride:       4,
			Name:       "Corkscrew",
			Finished:   base.Add(time.Duration(i) * time.Minute),
			MaxSpeed:   int32(100 + i),
			Inversions: uint8(i),
		}
		if _, err := m.SaveResult(ctx, res); err != nil {
			t.Fatalf("SaveResult(%d) error = %v", i, err)
		}
	}
	if _, err := m.SaveResult(ctx, ride.TestResult{Ride: 9, Finished: base}); err != nil {
		t.Fatalf("SaveResult(other ride) error = %v", err)
	}

	runs, err := m.Runs(ctx, 4, 0)
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Runs() returned %d rows, want 3", len(runs))
	}
	if runs[0].MaxSpeed != 102 {
		t.Errorf("newest run MaxSpeed = %d, want 102", runs[0].MaxSpeed)
	}
	res, err := runs[0].Result()
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if res.Name != "Corkscrew" || res.Inversions != 2 {
		t.Errorf("decoded result = %+v", res)
	}

	limited, err := m.Runs(ctx, 4, 1)
	if err != nil {
		t.Fatalf("Runs(limit) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Runs(limit 1) returned %d rows", len(limited))
	}
}

// TestNotConnected verifies an unconnected manager refuses work
func TestNotConnected(t *testing.T) {
	m := NewManager(zerolog.Nop())
	if _, err := m.SaveResult(context.Background(), ride.TestResult{}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("SaveResult() = %v, want ErrNotConnected", err)
	}
	if _, err := m.Runs(context.Background(), 1, 0); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Runs() = %v, want ErrNotConnected", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
