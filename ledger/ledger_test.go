package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/emichr/RSpace-NTNU-workshop/experiment"
	"github.com/emichr/RSpace-NTNU-workshop/walk"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndListRuns(t *testing.T) {
	l := openTestLedger(t)

	report := &experiment.Report{
		Root:         "/data/exp-01",
		DocumentID:   1001,
		DocumentName: "exp-01",
		Outcomes: []experiment.Outcome{
			{Ref: walk.FileRef{Path: "/data/exp-01/a.md", Size: 20}, Status: experiment.StatusUploaded, FileID: 42},
			{Ref: walk.FileRef{Path: "/data/exp-01/c.bin", Size: 5_000_000}, Status: experiment.StatusOversize},
		},
	}

	start := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	if err := l.RecordRun(context.Background(), report, start, start.Add(3*time.Second)); err != nil {
		t.Fatal(err)
	}

	runs, err := l.Runs(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.Root != "/data/exp-01" || r.DocumentID != 1001 {
		t.Errorf("run = %+v", r)
	}
	if r.Files != 2 || r.Uploaded != 1 {
		t.Errorf("expected 2 files / 1 uploaded, got %d / %d", r.Files, r.Uploaded)
	}
}

func TestRunsOrderNewestFirst(t *testing.T) {
	l := openTestLedger(t)
	now := time.Now()

	for i, root := range []string{"/a", "/b", "/c"} {
		report := &experiment.Report{Root: root, DocumentID: int64(i + 1), DocumentName: "d"}
		if err := l.RecordRun(context.Background(), report, now, now); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := l.Runs(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("limit not applied: %d runs", len(runs))
	}
	if runs[0].Root != "/c" || runs[1].Root != "/b" {
		t.Errorf("unexpected order: %v", runs)
	}
}

func TestRecordRunEmptyOutcomes(t *testing.T) {
	l := openTestLedger(t)
	report := &experiment.Report{Root: "/empty", DocumentID: 5, DocumentName: "empty"}
	now := time.Now()
	if err := l.RecordRun(context.Background(), report, now, now); err != nil {
		t.Fatal(err)
	}

	runs, err := l.Runs(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if runs[0].Files != 0 {
		t.Errorf("expected 0 files, got %d", runs[0].Files)
	}
}
