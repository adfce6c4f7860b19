package questionnaire

// SessionMeta carries per-session engagement signals supplied by the caller.
// All maps are keyed by question id except SuggestionShown, which is keyed by
// suggestion rule id. The engine reads these to weight suggestions and to
// scope validation; it never writes them.
type SessionMeta struct {
	UserID          string             `json:"userId,omitempty" yaml:"userId,omitempty"`
	TimeSpent       map[string]float64 `json:"timeSpent,omitempty" yaml:"timeSpent,omitempty"`
	Attempts        map[string]int     `json:"attempts,omitempty" yaml:"attempts,omitempty"`
	Confidence      map[string]float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	SuggestionShown map[string]int     `json:"suggestionShown,omitempty" yaml:"suggestionShown,omitempty"`
}

// TimeSpentOn returns seconds spent on a question, zero when unknown.
func (m *SessionMeta) TimeSpentOn(questionID string) float64 {
	if m == nil {
		return 0
	}
	return m.TimeSpent[questionID]
}

// AttemptsOn returns how many times the caller reported edits to a question.
func (m *SessionMeta) AttemptsOn(questionID string) int {
	if m == nil {
		return 0
	}
	return m.Attempts[questionID]
}

// ShownCount returns how often a suggestion rule's output has been displayed.
func (m *SessionMeta) ShownCount(ruleID string) int {
	if m == nil {
		return 0
	}
	return m.SuggestionShown[ruleID]
}
