package review

import (
	"fmt"
	"strings"
)

// SystemPrompt frames the model as a reviewer and asks it to be
// selective: only issues worth a senior developer's attention.
const SystemPrompt = `You are an expert developer reviewing pull requests.
Be compact in your reviews and highlight only important things
(i.e. potential bugs, security issues and critical parts in code).

Please only submit a comment if the section actually requires the
attention of a senior developer, or if you spot a bug or unused variable.

You should not comment on things just because they have changed; comment
about logical errors or things which could easily be missed by another
senior developer.`

// BuildPRPrompt renders the review prompt for an annotated diff. The
// leading number on each line is the line's position in the new file,
// which is what the file_comments line fields must reference.
func BuildPRPrompt(annotatedDiff string) string {
	var builder strings.Builder
	builder.WriteString("Here are the changes for this PR. Each surviving line is prefixed\n")
	builder.WriteString("with its line number in the resulting file; removed lines carry no number.\n")
	builder.WriteString("```\n")
	builder.WriteString(annotatedDiff)
	builder.WriteString("\n```\n")
	builder.WriteString(`Please comment in the JSON standard on the above given git diff.

Produce pure JSON output, without any extra symbols (like ` + "```json" + ` etc).

EXAMPLE:
{
  "pr_comment": "A short comment on the entire PR (should be compact)",
  "file_comments": [
    {
      "file": "path/somefile.py",
      "start_line": 198,
      "line": 200,
      "comment": "somecomment"
    }
  ]
}

start_line must be <= line, and both must be line numbers printed in the diff above.
`)
	return builder.String()
}

// BuildSummaryFooter renders the attribution line appended to the
// top-level PR comment.
func BuildSummaryFooter(model string, cost float64) string {
	return fmt.Sprintf("(review was done using=%s with cost=$%.4f)", model, cost)
}
