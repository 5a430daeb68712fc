package reconcile

import (
	"strings"
	"testing"

	"github.com/akarpov87/patchnote/internal/domain"
	"github.com/akarpov87/patchnote/internal/patch"
)

// twoHunkIndex builds an index for one file with hunks covering new-file
// lines 10-12 and 198-200.
func twoHunkIndex(t *testing.T) *patch.Index {
	t.Helper()
	text := strings.Join([]string{
		"--- a/service.go",
		"+++ b/service.go",
		"@@ -10,3 +10,3 @@",
		" a",
		"+b",
		" c",
		"@@ -200,3 +198,3 @@",
		" d",
		"+e",
		" f",
	}, "\n")
	_, index, err := patch.Annotate(text, patch.DefaultSkipRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return index
}

func TestReconcile_DirectPlacement_SingleLine(t *testing.T) {
	index := twoHunkIndex(t)

	ops, failures := Reconcile(index, []domain.ReviewComment{
		{File: "service.go", Line: 11, StartLine: 11, Body: "check this"},
	})

	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(ops) != 1 {
		t.Fatalf("ops count = %d, want 1", len(ops))
	}
	op := ops[0]
	if op.Line != 11 || op.File != "service.go" {
		t.Errorf("placement = %s:%d, want service.go:11", op.File, op.Line)
	}
	if op.StartLine != nil {
		t.Error("equal line pair should omit start_line")
	}
	if op.Degraded {
		t.Error("direct placement should not be degraded")
	}
	if op.Body != "check this" {
		t.Errorf("Body = %q, want untouched body", op.Body)
	}
}

func TestReconcile_DirectPlacement_RangeWithinHunk(t *testing.T) {
	index := twoHunkIndex(t)

	ops, failures := Reconcile(index, []domain.ReviewComment{
		{File: "service.go", Line: 12, StartLine: 10, Body: "whole block"},
	})

	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(ops) != 1 {
		t.Fatalf("ops count = %d, want 1", len(ops))
	}
	op := ops[0]
	if op.StartLine == nil || *op.StartLine != 10 {
		t.Fatalf("StartLine = %v, want 10", op.StartLine)
	}
	if op.Line != 12 {
		t.Errorf("Line = %d, want 12", op.Line)
	}
}

func TestReconcile_CrossHunkRange_Degrades(t *testing.T) {
	index := twoHunkIndex(t)

	// Line 200 resolves to the second hunk, line 12 to the first.
	ops, failures := Reconcile(index, []domain.ReviewComment{
		{File: "service.go", Line: 200, StartLine: 12, Body: "spans regions"},
	})

	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(ops) != 1 {
		t.Fatalf("ops count = %d, want 1", len(ops))
	}
	op := ops[0]
	if !op.Degraded {
		t.Fatal("cross-hunk range should degrade")
	}
	if op.Line != 1 {
		t.Errorf("degraded anchor = %d, want 1", op.Line)
	}
	if op.StartLine != nil {
		t.Error("degraded op must drop start_line")
	}
	if !strings.HasPrefix(op.Body, "In this file: ") {
		t.Errorf("degraded body = %q, want prefix", op.Body)
	}
	if op.DegradeReason != "cross-hunk range" {
		t.Errorf("DegradeReason = %q", op.DegradeReason)
	}
}

func TestReconcile_UnresolvableStartLine_Degrades(t *testing.T) {
	index := twoHunkIndex(t)

	ops, failures := Reconcile(index, []domain.ReviewComment{
		{File: "service.go", Line: 199, StartLine: 50, Body: "start outside any hunk"},
	})

	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(ops) != 1 || !ops[0].Degraded {
		t.Fatalf("ops = %+v, want one degraded op", ops)
	}
}

func TestReconcile_UnknownFile_Dropped(t *testing.T) {
	index := twoHunkIndex(t)

	ops, failures := Reconcile(index, []domain.ReviewComment{
		{File: "missing.go", Line: 10, StartLine: 10, Body: "x"},
	})

	if len(ops) != 0 {
		t.Fatalf("ops = %+v, want none", ops)
	}
	if len(failures) != 1 {
		t.Fatalf("failures count = %d, want 1", len(failures))
	}
	if failures[0].Reason != "file not present in patch" {
		t.Errorf("Reason = %q", failures[0].Reason)
	}
}

func TestReconcile_UnresolvableLine_Dropped(t *testing.T) {
	index := twoHunkIndex(t)

	ops, failures := Reconcile(index, []domain.ReviewComment{
		{File: "service.go", Line: 500, StartLine: 500, Body: "x"},
	})

	if len(ops) != 0 {
		t.Fatalf("ops = %+v, want none", ops)
	}
	if len(failures) != 1 {
		t.Fatalf("failures count = %d, want 1", len(failures))
	}
	if failures[0].Reason != "line not part of any emitted hunk" {
		t.Errorf("Reason = %q", failures[0].Reason)
	}
}

func TestReconcile_LinesClampedToOne(t *testing.T) {
	text := strings.Join([]string{
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -0,0 +1,2 @@",
		"+a",
		"+b",
	}, "\n")
	_, index, err := patch.Annotate(text, patch.DefaultSkipRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ops, failures := Reconcile(index, []domain.ReviewComment{
		{File: "f.go", Line: 0, StartLine: -3, Body: "negative in, clamped"},
	})

	if len(failures) != 0 {
		t.Fatalf("failures = %v, want none", failures)
	}
	if len(ops) != 1 {
		t.Fatalf("ops count = %d, want 1", len(ops))
	}
	if ops[0].Line != 1 {
		t.Errorf("Line = %d, want clamp to 1", ops[0].Line)
	}
	if ops[0].StartLine != nil {
		t.Error("both clamp to 1, so start_line should be omitted")
	}
	if ops[0].Degraded {
		t.Error("clamped equal pair is a direct placement")
	}
}

func TestReconcile_MixedBatch_IsolatesOutcomes(t *testing.T) {
	index := twoHunkIndex(t)

	ops, failures := Reconcile(index, []domain.ReviewComment{
		{File: "service.go", Line: 10, StartLine: 10, Body: "ok"},
		{File: "gone.go", Line: 1, StartLine: 1, Body: "dropped"},
		{File: "service.go", Line: 198, StartLine: 11, Body: "degraded"},
	})

	if len(ops) != 2 {
		t.Fatalf("ops count = %d, want 2", len(ops))
	}
	if len(failures) != 1 {
		t.Fatalf("failures count = %d, want 1", len(failures))
	}
	if ops[0].Degraded || !ops[1].Degraded {
		t.Errorf("outcome order wrong: %+v", ops)
	}
}
