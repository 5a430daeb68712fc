package patch

import (
	"errors"
	"strings"
	"testing"
)

func annotateText(t *testing.T, text string) (string, *Index) {
	t.Helper()
	annotated, index, err := Annotate(text, DefaultSkipRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return annotated, index
}

func TestAnnotate_NoHunkMarker_ReturnsUnchanged(t *testing.T) {
	text := "just some text\nwith no diff in it\n"

	annotated, index := annotateText(t, text)

	if annotated != text {
		t.Errorf("annotated = %q, want input unchanged", annotated)
	}
	if index.HasFile("just some text") {
		t.Error("index should be empty for non-diff text")
	}
}

func TestAnnotate_AddedLines_NumberFromNewStart(t *testing.T) {
	text := strings.Join([]string{
		"diff --git a/main.go b/main.go",
		"--- /dev/null",
		"+++ b/main.go",
		"@@ -0,0 +1,3 @@",
		"+package main",
		"+",
		"+func main() {}",
	}, "\n")

	annotated, _ := annotateText(t, text)

	want := strings.Join([]string{
		"diff --git a/main.go b/main.go",
		"--- /dev/null",
		"+++ b/main.go",
		"@@ -0,0 +1,3 @@",
		"1\t+package main",
		"2\t+",
		"3\t+func main() {}",
	}, "\n")
	if annotated != want {
		t.Errorf("annotated =\n%s\nwant:\n%s", annotated, want)
	}
}

func TestAnnotate_RemovedLine_GetsTabNoNumber(t *testing.T) {
	text := strings.Join([]string{
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -1,1 +1,2 @@",
		"-old",
		"+new1",
		"+new2",
	}, "\n")

	annotated, _ := annotateText(t, text)

	lines := strings.Split(annotated, "\n")
	if got := lines[3]; got != "\t-old" {
		t.Errorf("removed line = %q, want %q", got, "\t-old")
	}
	if got := lines[4]; got != "1\t+new1" {
		t.Errorf("first added line = %q, want %q", got, "1\t+new1")
	}
	if got := lines[5]; got != "2\t+new2" {
		t.Errorf("second added line = %q, want %q", got, "2\t+new2")
	}
}

func TestAnnotate_ContextLinesAreNumbered(t *testing.T) {
	text := strings.Join([]string{
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -9,3 +9,4 @@ func helper() {",
		" ctx1",
		"+added",
		" ctx2",
		" ctx3",
	}, "\n")

	annotated, _ := annotateText(t, text)

	lines := strings.Split(annotated, "\n")
	want := []string{"9\t ctx1", "10\t+added", "11\t ctx2", "12\t ctx3"}
	for i, w := range want {
		if lines[3+i] != w {
			t.Errorf("line %d = %q, want %q", 3+i, lines[3+i], w)
		}
	}
}

func TestAnnotate_SecondHunk_ResetsCounter(t *testing.T) {
	text := strings.Join([]string{
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -1,1 +1,1 @@",
		"+first",
		"@@ -40,2 +42,2 @@",
		" a",
		"+b",
	}, "\n")

	annotated, index := annotateText(t, text)

	lines := strings.Split(annotated, "\n")
	if got := lines[5]; got != "42\t a" {
		t.Errorf("first line of second hunk = %q, want %q", got, "42\t a")
	}
	if got := lines[6]; got != "43\t+b" {
		t.Errorf("second line of second hunk = %q, want %q", got, "43\t+b")
	}

	hunk, ok := index.Resolve("f.go", 43)
	if !ok {
		t.Fatal("line 43 should resolve")
	}
	if hunk.NewStart != 42 {
		t.Errorf("NewStart = %d, want 42", hunk.NewStart)
	}
}

func TestAnnotate_MalformedHunkHeader_Fails(t *testing.T) {
	text := strings.Join([]string{
		"--- a/f.go",
		"+++ b/f.go",
		"@@ not a real header @@",
		"+x",
	}, "\n")

	_, _, err := Annotate(text, DefaultSkipRules())
	if err == nil {
		t.Fatal("expected error for malformed hunk header")
	}
	var malformed *MalformedHunkError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedHunkError", err)
	}
	if malformed.Header != "@@ not a real header @@" {
		t.Errorf("Header = %q", malformed.Header)
	}
}

func TestAnnotate_HunkHeaderWithoutCounts_Parses(t *testing.T) {
	text := strings.Join([]string{
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -1 +1 @@",
		"-a",
		"+b",
	}, "\n")

	annotated, _ := annotateText(t, text)

	if !strings.Contains(annotated, "1\t+b") {
		t.Errorf("single-line header not numbered:\n%s", annotated)
	}
}

func TestAnnotate_SkippedFile_CollapsesToSentinel(t *testing.T) {
	text := strings.Join([]string{
		"--- a/package-lock.json",
		"+++ b/package-lock.json",
		"@@ -1,4 +1,4 @@",
		"-  \"version\": \"1.0.0\",",
		"+  \"version\": \"1.0.1\",",
		" }",
		"@@ -90,2 +90,2 @@",
		"+more noise",
		"--- a/main.go",
		"+++ b/main.go",
		"@@ -1,1 +1,1 @@",
		"+real change",
	}, "\n")

	annotated, index := annotateText(t, text)

	want := strings.Join([]string{
		"--- a/package-lock.json",
		"+++ b/package-lock.json",
		"@@ -1,4 +1,4 @@",
		OmissionSentinel,
		"--- a/main.go",
		"+++ b/main.go",
		"@@ -1,1 +1,1 @@",
		"1\t+real change",
	}, "\n")
	if annotated != want {
		t.Errorf("annotated =\n%s\nwant:\n%s", annotated, want)
	}

	// The elided file keeps a section but resolves no lines.
	if !index.HasFile("package-lock.json") {
		t.Error("skipped file should still have a section")
	}
	if _, ok := index.Resolve("package-lock.json", 1); ok {
		t.Error("lines of a skipped file must not resolve")
	}
	if _, ok := index.Resolve("main.go", 1); !ok {
		t.Error("line 1 of main.go should resolve")
	}
}

func TestAnnotate_TrailingEmptyLineTrimmed(t *testing.T) {
	text := "--- a/f.go\n+++ b/f.go\n@@ -1,1 +1,1 @@\n+x\n"

	annotated, _ := annotateText(t, text)

	if strings.HasSuffix(annotated, "\n") {
		t.Errorf("trailing empty line should be trimmed: %q", annotated)
	}
	if !strings.HasSuffix(annotated, "1\t+x") {
		t.Errorf("content should survive the trim: %q", annotated)
	}
}

func TestAnnotate_PreambleLinesPassThrough(t *testing.T) {
	text := strings.Join([]string{
		"diff --git a/f.go b/f.go",
		"index 1234567..89abcde 100644",
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -1,1 +1,1 @@",
		"+x",
	}, "\n")

	annotated, _ := annotateText(t, text)

	lines := strings.Split(annotated, "\n")
	if lines[0] != "diff --git a/f.go b/f.go" || lines[1] != "index 1234567..89abcde 100644" {
		t.Errorf("preamble altered:\n%s", annotated)
	}
}

func TestIndex_Resolve(t *testing.T) {
	text := strings.Join([]string{
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -10,3 +10,3 @@",
		" a",
		"+b",
		" c",
		"@@ -200,2 +198,2 @@",
		" d",
		"+e",
	}, "\n")

	_, index := annotateText(t, text)

	first, ok := index.Resolve("f.go", 11)
	if !ok || first.NewStart != 10 {
		t.Fatalf("line 11 should resolve to the first hunk, got ok=%v", ok)
	}
	second, ok := index.Resolve("f.go", 199)
	if !ok || second.NewStart != 198 {
		t.Fatalf("line 199 should resolve to the second hunk, got ok=%v", ok)
	}
	if first == second {
		t.Error("hunks should be distinct")
	}

	if _, ok := index.Resolve("f.go", 50); ok {
		t.Error("line 50 is in no hunk and should not resolve")
	}
	if _, ok := index.Resolve("other.go", 11); ok {
		t.Error("unknown file should not resolve")
	}
}

func TestHunk_RecordsLineKinds(t *testing.T) {
	text := strings.Join([]string{
		"--- a/f.go",
		"+++ b/f.go",
		"@@ -1,2 +1,2 @@",
		" ctx",
		"-gone",
		"+fresh",
	}, "\n")

	_, index := annotateText(t, text)

	hunk, ok := index.Resolve("f.go", 1)
	if !ok {
		t.Fatal("line 1 should resolve")
	}
	if len(hunk.Lines) != 3 {
		t.Fatalf("Lines count = %d, want 3", len(hunk.Lines))
	}
	if hunk.Lines[0].Kind != KindContext || hunk.Lines[0].NewLine == nil {
		t.Error("first line should be numbered context")
	}
	if hunk.Lines[1].Kind != KindRemoved || hunk.Lines[1].NewLine != nil {
		t.Error("removed line should carry no number")
	}
	if hunk.Lines[2].Kind != KindAdded || hunk.Lines[2].NewLine == nil {
		t.Error("added line should be numbered")
	}
}
