package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/scrypster/cos/pkg/types"
)

const (
	insightWindow     = 10
	automationWindow  = 20
	automationMinRuns = 5
	automationMinSize = 10
	learnedNoteSize   = 20
	workCountMin      = 3
	workHourStart     = 9
	workHourEnd       = 17
)

// workCategories counts toward the productivity note in every mode.
var workCategories = map[string]bool{
	types.CategoryCoding:            true,
	types.CategoryResearch:          true,
	types.CategoryCommunication:     true,
	string(types.ActionCreate):      true,
	string(types.ActionLearn):       true,
	string(types.ActionCommunicate): true,
	string(types.ActionAnalyze):     true,
}

// Insights summarizes recent history: the primary focus among the last 10
// entries, their mean confidence, a productivity note during working hours
// and how many interactions have been learned from.
func (e *CognitiveEngine) Insights(now time.Time) []string {
	e.mu.Lock()
	total := len(e.prefs.IntentHistory)
	recent := append([]types.IntentHistoryEntry(nil), e.prefs.RecentHistory(insightWindow)...)
	e.mu.Unlock()

	if total == 0 {
		return []string{"COS is learning your patterns - keep interacting!"}
	}

	var insights []string
	counts, order := countCategories(recent)
	top := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[top] {
			top = c
		}
	}
	insights = append(insights, fmt.Sprintf("Primary focus: %s activities (%dx recent)", top, counts[top]))

	sum := 0.0
	work := 0
	for _, h := range recent {
		sum += h.Confidence
		if workCategories[h.Intent] {
			work++
		}
	}
	insights = append(insights, fmt.Sprintf("AI accuracy: %.1f%% (improving with use)", sum/float64(len(recent))*100))

	if hour := now.Hour(); hour >= workHourStart && hour <= workHourEnd && work > workCountMin {
		insights = append(insights, "High productivity period detected - consider deep work session")
	}
	if total > learnedNoteSize {
		insights = append(insights, fmt.Sprintf("COS has learned from %d interactions", total))
	}
	return insights
}

// ProactiveSuggestions proposes automating any category used at least five
// times in the last 20 entries, once history has more than 10 entries.
// Suggestions are ordered by count, then category name.
func (e *CognitiveEngine) ProactiveSuggestions() []string {
	e.mu.Lock()
	total := len(e.prefs.IntentHistory)
	recent := append([]types.IntentHistoryEntry(nil), e.prefs.RecentHistory(automationWindow)...)
	e.mu.Unlock()

	if total <= automationMinSize {
		return nil
	}

	counts, order := countCategories(recent)
	var frequent []string
	for _, c := range order {
		if counts[c] >= automationMinRuns {
			frequent = append(frequent, c)
		}
	}
	sort.SliceStable(frequent, func(i, j int) bool {
		if counts[frequent[i]] != counts[frequent[j]] {
			return counts[frequent[i]] > counts[frequent[j]]
		}
		return frequent[i] < frequent[j]
	})

	suggestions := make([]string, 0, len(frequent))
	for _, c := range frequent {
		suggestions = append(suggestions,
			fmt.Sprintf("Consider automating your %s workflow (used %dx recently)", c, counts[c]))
	}
	return suggestions
}

// countCategories counts entries per category and returns the categories in
// first-seen order.
func countCategories(entries []types.IntentHistoryEntry) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, h := range entries {
		if counts[h.Intent] == 0 {
			order = append(order, h.Intent)
		}
		counts[h.Intent]++
	}
	return counts, order
}
