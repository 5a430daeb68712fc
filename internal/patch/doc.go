// Package patch annotates unified-diff text with resulting-file line
// numbers so review comments can reference exact positions in the new
// version of each file.
//
// Every context or added line is prefixed with "<n>\t" where n is the
// line's number in the new file; removed lines are prefixed with a bare
// tab since they have no new-file position. Alongside the annotated
// text, Annotate builds an Index mapping (file, new line number) to the
// hunk that emitted it, which the reconciler uses to validate comment
// ranges.
package patch
