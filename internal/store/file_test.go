package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/podium-ed/podium/internal/config"
	"github.com/podium-ed/podium/internal/metrics"
	"github.com/podium-ed/podium/internal/report"
)

func sampleRecord(name string, age int) *Record {
	return &Record{
		Report: report.Raw{
			Metadata: report.Metadata{
				StudentName: name,
				StudentAge:  age,
				AgeGroup:    config.GroupForAge(age),
			},
			Scores: metrics.Scores{Overall: 72.5, Clarity: 80},
		},
	}
}

func TestFileStoreAppendsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evaluations.jsonl")
	fs := NewFileStore(path)
	ctx := context.Background()

	if err := fs.Save(ctx, sampleRecord("asha", 7)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := fs.Save(ctx, sampleRecord("ravi", 12)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var recs []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for sc.Scan() {
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].Report.Metadata.StudentName != "asha" || recs[1].Report.Metadata.StudentName != "ravi" {
		t.Errorf("records out of order: %q, %q", recs[0].Report.Metadata.StudentName, recs[1].Report.Metadata.StudentName)
	}
	if recs[0].CreatedAt.IsZero() {
		t.Error("Save must stamp CreatedAt")
	}
	if recs[1].Report.Scores.Overall != 72.5 {
		t.Errorf("overall = %v, want 72.5 round-tripped", recs[1].Report.Scores.Overall)
	}
}

func TestFileStoreConcurrentSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evaluations.jsonl")
	fs := NewFileStore(path)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fs.Save(ctx, sampleRecord("pari", 9)); err != nil {
				t.Errorf("Save: %v", err)
			}
		}()
	}
	wg.Wait()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	lines := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for sc.Scan() {
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("line %d corrupt: %v", lines, err)
		}
		lines++
	}
	if lines != n {
		t.Errorf("got %d lines, want %d", lines, n)
	}
}

func TestFileStoreBadPath(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "missing", "deep", "file.jsonl"))
	if err := fs.Save(context.Background(), sampleRecord("x", 5)); err == nil {
		t.Error("want error for unwritable path")
	}
}

// failStore always fails; used to check Multi keeps going.
type failStore struct{}

func (failStore) Save(context.Context, *Record) error { return errors.New("boom") }

func TestMultiSavesAllStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evaluations.jsonl")
	m := Multi{failStore{}, NewFileStore(path)}

	err := m.Save(context.Background(), sampleRecord("asha", 7))
	if err == nil {
		t.Fatal("want joined error from the failing store")
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Error("the healthy store must still receive the record")
	}
}
