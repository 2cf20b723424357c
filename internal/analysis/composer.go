package analysis

import (
	"fmt"
	"strings"
)

// NoTermsSummary is returned when extraction produced no candidate terms.
const NoTermsSummary = "No specific medical terms were identified in the input."

// ComposeSummary renders the extracted terms into a human-readable sentence.
// Terms are listed comma-joined in the order given; the input is assumed to
// be deduplicated already. Total function, no failure modes.
func ComposeSummary(terms []string) string {
	if len(terms) == 0 {
		return NoTermsSummary
	}
	return fmt.Sprintf("Based on the analysis, the key medical conditions and symptoms include: %s.", strings.Join(terms, ", "))
}
