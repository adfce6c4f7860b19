package personalize

import "github.com/goliatone/go-questflow/pkg/questionnaire"

// Axis names a personalization dimension for suggestion templates.
type Axis string

const (
	AxisProfession Axis = "profession"
	AxisFamilySize Axis = "family_size"
	AxisTimeline   Axis = "timeline"
	AxisBudget     Axis = "budget"
)

// AxisOrder is the fixed application order. Later axes win on field
// conflicts; the precedence is last-write-wins by product decision, not an
// additive merge.
var AxisOrder = []Axis{AxisProfession, AxisFamilySize, AxisTimeline, AxisBudget}

// Family size buckets derived from the family_composition answer.
const (
	FamilySingle = "single"
	FamilyCouple = "couple"
	FamilySmall  = "family"
	FamilyLarge  = "large_family"
)

// AxisValues resolves the current value of every axis from the profile and
// answers. Axes without a resolvable value are absent from the map so their
// overrides never apply.
func AxisValues(profile *questionnaire.UserProfile, answers questionnaire.FormData) map[Axis]string {
	out := make(map[Axis]string, len(AxisOrder))

	if profile != nil && profile.Profession != "" {
		out[AxisProfession] = profile.Profession
	}
	if size := FamilySize(answers); size != "" {
		out[AxisFamilySize] = size
	}
	if timeline := answers.StringValue(questionnaire.AnswerTimelinePreference); timeline != "" {
		out[AxisTimeline] = timeline
	}
	if budget := answers.StringValue(questionnaire.AnswerBudgetRange); budget != "" {
		out[AxisBudget] = budget
	}
	return out
}

// FamilySize buckets the family_composition answer. The applicant themselves
// is implicit, so an empty answer means a single applicant.
func FamilySize(answers questionnaire.FormData) string {
	members := answers.StringsValue(questionnaire.AnswerFamilyComposition)
	if _, present := answers[questionnaire.AnswerFamilyComposition]; !present {
		return ""
	}
	switch {
	case len(members) == 0:
		return FamilySingle
	case len(members) == 1:
		return FamilyCouple
	case len(members) <= 2:
		return FamilySmall
	default:
		return FamilyLarge
	}
}
