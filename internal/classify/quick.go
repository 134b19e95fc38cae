package classify

import (
	"strings"

	"github.com/scrypster/cos/pkg/types"
)

var quickBuckets = []struct {
	category string
	keywords []string
}{
	{types.CategoryResearch, []string{"study", "learn", "research"}},
	{types.CategoryPlanning, []string{"schedule", "meeting", "plan"}},
	{types.CategoryCoding, []string{"code", "program", "develop"}},
	{types.CategoryCommunication, []string{"email", "call", "message"}},
	{types.CategoryCreative, []string{"design", "create", "art"}},
}

// QuickCategory buckets input into one of the five category labels, or
// general, by the first bucket with any keyword present. It is deliberately
// coarser than Classify and is used for session summaries.
func QuickCategory(input string) string {
	lower := strings.ToLower(input)
	for _, b := range quickBuckets {
		if containsAny(lower, b.keywords) {
			return b.category
		}
	}
	return types.CategoryGeneral
}
