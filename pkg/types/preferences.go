package types

import "time"

// IntentHistoryEntry records one accepted intent.
type IntentHistoryEntry struct {
	ID         string            `json:"id,omitempty"`
	Text       string            `json:"text"`
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Timestamp  time.Time         `json:"timestamp"`
	Entities   []ExtractedEntity `json:"entities"`
}

// LearningData is a single feedback tuple. No retraining happens; the tuples
// drive automation hints and are kept for export.
type LearningData struct {
	Text      string    `json:"text"`
	Intent    string    `json:"intent"`
	Feedback  Feedback  `json:"feedback"`
	Timestamp time.Time `json:"timestamp"`
}

// UserPreferences is the per-profile persisted blob. It is loaded at startup
// and rewritten on every accepted action.
type UserPreferences struct {
	IntentHistory []IntentHistoryEntry `json:"intentHistory"`
	LastActivity  time.Time            `json:"lastActivity"`
	LearningData  []LearningData       `json:"learningData"`
}

// NewUserPreferences returns empty preferences.
func NewUserPreferences() *UserPreferences {
	return &UserPreferences{
		IntentHistory: []IntentHistoryEntry{},
		LearningData:  []LearningData{},
	}
}

// AppendHistory adds an entry, evicting the oldest entries beyond
// MaxHistoryEntries. Order is oldest first.
func (p *UserPreferences) AppendHistory(entry IntentHistoryEntry) {
	p.IntentHistory = appendBounded(p.IntentHistory, entry, MaxHistoryEntries)
}

// AppendLearning adds a feedback tuple, evicting the oldest beyond MaxLearningEntries.
func (p *UserPreferences) AppendLearning(d LearningData) {
	p.LearningData = appendBounded(p.LearningData, d, MaxLearningEntries)
}

// RecentHistory returns up to n of the newest entries, oldest first.
func (p *UserPreferences) RecentHistory(n int) []IntentHistoryEntry {
	if n <= 0 || len(p.IntentHistory) == 0 {
		return nil
	}
	if n > len(p.IntentHistory) {
		n = len(p.IntentHistory)
	}
	return p.IntentHistory[len(p.IntentHistory)-n:]
}

// PositiveFeedbackCount counts positive feedback tuples for a category.
func (p *UserPreferences) PositiveFeedbackCount(category string) int {
	count := 0
	for _, d := range p.LearningData {
		if d.Intent == category && d.Feedback == FeedbackPositive {
			count++
		}
	}
	return count
}

// Normalize repairs a blob decoded from an older or partial save so that
// every invariant holds.
func (p *UserPreferences) Normalize() {
	if p.IntentHistory == nil {
		p.IntentHistory = []IntentHistoryEntry{}
	}
	if len(p.IntentHistory) > MaxHistoryEntries {
		p.IntentHistory = p.IntentHistory[len(p.IntentHistory)-MaxHistoryEntries:]
	}
	for i := range p.IntentHistory {
		p.IntentHistory[i].Confidence = ClampConfidence(p.IntentHistory[i].Confidence)
	}
	if p.LearningData == nil {
		p.LearningData = []LearningData{}
	}
	if len(p.LearningData) > MaxLearningEntries {
		p.LearningData = p.LearningData[len(p.LearningData)-MaxLearningEntries:]
	}
}
