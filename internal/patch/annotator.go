package patch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// OmissionSentinel replaces the body of a skipped file in the annotated
// output. The structure of the diff (file and hunk headers) is kept.
const OmissionSentinel = "**FILE OMITTED FOR BREVITY**"

// LineKind classifies a line within a hunk.
type LineKind int

const (
	// KindContext is an unchanged line present in both file versions.
	KindContext LineKind = iota
	// KindAdded is a line only present in the new file.
	KindAdded
	// KindRemoved is a line only present in the old file.
	KindRemoved
	// KindMeta is a non-content line such as the omission sentinel.
	KindMeta
)

// AnnotatedLine is one physical hunk line with its new-file position.
// NewLine is nil for removed and meta lines.
type AnnotatedLine struct {
	Kind    LineKind
	Text    string
	NewLine *int
}

// Hunk records the new-file line span emitted for one @@ region.
type Hunk struct {
	NewStart int
	NewEnd   int // last emitted new-file line; NewEnd < NewStart for pure removals
	Lines    []AnnotatedLine
}

// Contains reports whether the given new-file line was emitted by this hunk.
func (h *Hunk) Contains(line int) bool {
	return line >= h.NewStart && line <= h.NewEnd
}

// FileSection is the portion of the patch belonging to one file.
type FileSection struct {
	Path    string
	Skipped bool
	Hunks   []*Hunk
}

// Index resolves (file, new line number) pairs to the hunk that emitted
// them. It is built once by Annotate and read-only afterwards.
type Index struct {
	files map[string]*FileSection
}

// HasFile reports whether the patch contained a section for the file.
func (ix *Index) HasFile(file string) bool {
	_, ok := ix.files[file]
	return ok
}

// Resolve returns the hunk of file that emitted the given new-file line.
// Lines in skipped files never resolve: their hunk bodies were elided,
// so the model never saw numbered lines for them.
func (ix *Index) Resolve(file string, line int) (*Hunk, bool) {
	section, ok := ix.files[file]
	if !ok {
		return nil, false
	}
	for _, hunk := range section.Hunks {
		if hunk.Contains(line) {
			return hunk, true
		}
	}
	return nil, false
}

// MalformedHunkError reports a line starting with "@@" that does not
// match the hunk header grammar. Annotation cannot continue past it:
// every following line number would be wrong.
type MalformedHunkError struct {
	Header string
}

func (e *MalformedHunkError) Error() string {
	return fmt.Sprintf("malformed hunk header: %q", e.Header)
}

// hunkHeaderRe matches "@@ -oldStart[,oldCount] +newStart[,newCount] @@".
var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// annotator state machine states.
type state int

const (
	statePreamble state = iota // outside any hunk (diff headers, mode lines)
	stateInHunk                // numbering content lines
	stateSkipping              // eliding the rest of a skipped file
)

// Annotate walks the raw patch text once and returns the annotated text
// plus the positional index. Text without any hunk marker is returned
// unchanged with an empty index.
func Annotate(text string, rules SkipRules) (string, *Index, error) {
	index := &Index{files: make(map[string]*FileSection)}
	if !strings.Contains(text, "@@") {
		return text, index, nil
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	var section *FileSection
	var hunk *Hunk
	st := statePreamble
	skipFile := false
	lineNo := 0

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "--- "):
			// Old-path header ends the current hunk.
			st = statePreamble
			hunk = nil
			out = append(out, line)

		case strings.HasPrefix(line, "+++ "):
			path := newFilePath(line)
			skipFile = rules.Match(path)
			section = &FileSection{Path: path, Skipped: skipFile}
			index.files[path] = section
			st = statePreamble
			hunk = nil
			out = append(out, line)

		case strings.HasPrefix(line, "@@"):
			if st == stateSkipping {
				// Whole file is elided, later hunks included.
				continue
			}
			m := hunkHeaderRe.FindStringSubmatch(line)
			if m == nil {
				return "", nil, &MalformedHunkError{Header: line}
			}
			out = append(out, line)
			if skipFile {
				out = append(out, OmissionSentinel)
				st = stateSkipping
				hunk = nil
				continue
			}
			newStart, _ := strconv.Atoi(m[3])
			lineNo = newStart - 1
			hunk = &Hunk{NewStart: newStart, NewEnd: newStart - 1}
			if section != nil {
				section.Hunks = append(section.Hunks, hunk)
			}
			st = stateInHunk

		case st == stateSkipping:
			continue

		case st == stateInHunk:
			if strings.HasPrefix(line, "-") {
				out = append(out, "\t"+line)
				if hunk != nil {
					hunk.Lines = append(hunk.Lines, AnnotatedLine{Kind: KindRemoved, Text: line})
				}
				continue
			}
			lineNo++
			out = append(out, fmt.Sprintf("%d\t%s", lineNo, line))
			if hunk != nil {
				n := lineNo
				kind := KindContext
				if strings.HasPrefix(line, "+") {
					kind = KindAdded
				}
				hunk.Lines = append(hunk.Lines, AnnotatedLine{Kind: kind, Text: line, NewLine: &n})
				hunk.NewEnd = lineNo
			}

		default:
			// Preamble: diff --git, index, mode lines pass through.
			out = append(out, line)
		}
	}

	out = trimTrailingArtifact(out)
	return strings.Join(out, "\n"), index, nil
}

// trimTrailingArtifact drops a final line that is empty or purely
// numeric, a leftover of the line-based reconstruction rather than
// meaningful diff content.
func trimTrailingArtifact(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	if isEmptyOrNumeric(lines[len(lines)-1]) {
		return lines[:len(lines)-1]
	}
	return lines
}

func isEmptyOrNumeric(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// newFilePath extracts the new-file path from a "+++ " header, dropping
// the conventional "b/" prefix git puts on the new side.
func newFilePath(line string) string {
	path := strings.TrimPrefix(line, "+++ ")
	path = strings.TrimSuffix(path, "\t")
	if strings.HasPrefix(path, "b/") {
		return path[2:]
	}
	return path
}
