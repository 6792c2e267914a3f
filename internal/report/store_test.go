package report

import (
	"strconv"
	"testing"
)

func sweepRun(id string) *RunResult {
	return &RunResult{
		ID:        id,
		Kind:      Sweep,
		Evaluator: "./main.py",
		Rows: []RowReport{
			{H: 0, Cells: []CellReport{
				{Mode: "topological", Accuracy: "0.87", Deviation: "0.05", Found: true, Output: "Accuracy 0.87 stdev 0.05\n"},
				{Mode: "original", Accuracy: "0.81", Deviation: "0.09", Found: true, Output: "Accuracy 0.81 stdev 0.09\n"},
			}},
		},
	}
}

func TestRunResult_Cell(t *testing.T) {
	rr := sweepRun("r1")

	cell, ok := rr.Cell(0, "original")
	if !ok {
		t.Fatal("Cell(0, original) not found")
	}
	if cell.Accuracy != "0.81" {
		t.Errorf("Accuracy = %q, want 0.81", cell.Accuracy)
	}

	if _, ok := rr.Cell(7, "original"); ok {
		t.Error("Cell(7, original) found, want miss")
	}
	if _, ok := rr.Cell(0, "bogus"); ok {
		t.Error("Cell(0, bogus) found, want miss")
	}
}

func TestRunResult_Expect(t *testing.T) {
	rr := sweepRun("r1")
	if err := rr.Expect(Sweep); err != nil {
		t.Errorf("Expect(Sweep) = %v, want nil", err)
	}
	if err := rr.Expect(Kind("audit")); err == nil {
		t.Error("Expect(audit) = nil, want error")
	}
}

func TestDiskStore_RoundTrip(t *testing.T) {
	s := NewDiskStore()

	want := sweepRun("run-disk")
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if s.Dir() == "" {
		t.Error("Dir() empty after Save")
	}

	got, err := s.Load("run-disk")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != want.ID || len(got.Rows) != 1 {
		t.Errorf("Load = %+v, want round-tripped run", got)
	}
	cell, ok := got.Cell(0, "topological")
	if !ok || cell.Output == "" {
		t.Error("round trip dropped cell output")
	}
}

func TestDiskStore_LoadMissing(t *testing.T) {
	s := NewDiskStore()
	if _, err := s.Load("never-saved"); err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestLRUStore_Eviction(t *testing.T) {
	back := NewDiskStore()
	s := NewLRUStore(2, back)

	for i := 0; i < 3; i++ {
		if err := s.Save(sweepRun("run-" + strconv.Itoa(i))); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	// run-0 was evicted from memory but survives on disk.
	got, err := s.Load("run-0")
	if err != nil {
		t.Fatalf("Load after eviction: %v", err)
	}
	if got.ID != "run-0" {
		t.Errorf("ID = %q, want run-0", got.ID)
	}
}

func TestLRUStore_PromoteOnLoad(t *testing.T) {
	back := NewDiskStore()
	s := NewLRUStore(2, back)

	for i := 0; i < 2; i++ {
		if err := s.Save(sweepRun("run-" + strconv.Itoa(i))); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	// Touch run-0 so run-1 is the LRU entry, then push it out.
	if _, err := s.Load("run-0"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Save(sweepRun("run-2")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// All three remain loadable regardless of what memory kept.
	for i := 0; i < 3; i++ {
		if _, err := s.Load("run-" + strconv.Itoa(i)); err != nil {
			t.Errorf("Load(run-%d): %v", i, err)
		}
	}
}
