package review

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BuildSummaryBody renders the top-level PR comment: the model's
// summary followed by a provider attribution and cost footer.
func BuildSummaryBody(summary, provider, model string, cost float64) string {
	caser := cases.Title(language.English)
	return fmt.Sprintf("%s\n\n_%s review_ %s",
		summary, caser.String(provider), BuildSummaryFooter(model, cost))
}
