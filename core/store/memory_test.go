package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecotrack/binsight/core/model"
)

func TestMemoryStoreBins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetBin(ctx, "missing"); !errors.Is(err, ErrBinNotFound) {
		t.Fatalf("expected ErrBinNotFound, got %v", err)
	}

	s.PutBin(context.Background(), model.Bin{ID: "b2", CurrentFillLevel: 20})
	s.PutBin(context.Background(), model.Bin{ID: "b1", CurrentFillLevel: 10})

	bin, err := s.GetBin(ctx, "b1")
	if err != nil {
		t.Fatalf("get bin: %v", err)
	}
	if bin.CurrentFillLevel != 10 {
		t.Fatalf("fill = %v, want 10", bin.CurrentFillLevel)
	}

	if err := s.SetFillLevel(ctx, "b1", 42); err != nil {
		t.Fatalf("set fill: %v", err)
	}
	bin, _ = s.GetBin(ctx, "b1")
	if bin.CurrentFillLevel != 42 {
		t.Fatalf("fill = %v, want 42", bin.CurrentFillLevel)
	}

	bins, err := s.ListBins(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bins) != 2 || bins[0].ID != "b1" || bins[1].ID != "b2" {
		t.Fatalf("unexpected bin list: %+v", bins)
	}

	if err := s.SetFillLevel(ctx, "missing", 5); !errors.Is(err, ErrBinNotFound) {
		t.Fatalf("expected ErrBinNotFound, got %v", err)
	}
}

func TestMemoryStoreObservations(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of order; reads must come back sorted by timestamp.
	for _, o := range []model.Observation{
		{BinID: "b1", FillLevel: 30, Timestamp: base.Add(2 * time.Hour)},
		{BinID: "b1", FillLevel: 10, Timestamp: base},
		{BinID: "b1", FillLevel: 20, Timestamp: base.Add(time.Hour)},
		{BinID: "b2", FillLevel: 5, Timestamp: base.Add(3 * time.Hour)},
	} {
		if err := s.Append(ctx, o); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := s.Observations(ctx, "b1", base.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("observations: %v", err)
	}
	if len(got) != 2 || got[0].FillLevel != 20 || got[1].FillLevel != 30 {
		t.Fatalf("unexpected range result: %+v", got)
	}

	all, err := s.ObservationsByBin(ctx, base)
	if err != nil {
		t.Fatalf("observations by bin: %v", err)
	}
	if len(all) != 2 || len(all["b1"]) != 3 || len(all["b2"]) != 1 {
		t.Fatalf("unexpected batch result: %+v", all)
	}
	if all["b1"][0].FillLevel != 10 {
		t.Fatalf("batch result not sorted: %+v", all["b1"])
	}
}
