package questionnaire

import "strings"

// Segment labels derived from profile and answers. Validation and suggestion
// rules use these to scope which sessions they apply to.
const (
	SegmentProfessional    = "professional"
	SegmentHasChildren     = "has_children"
	SegmentFamilyMove      = "family_move"
	SegmentBudgetConscious = "budget_conscious"
	SegmentUrgentTimeline  = "urgent_timeline"
	SegmentCareerDriven    = "career_driven"
	SegmentEducationDriven = "education_driven"
	SegmentRetryApplicant  = "retry_applicant"
)

// Answer keys the segment derivation inspects. Flows that want segment-scoped
// rules should use these ids for the corresponding questions.
const (
	AnswerFamilyComposition  = "family_composition"
	AnswerTimelinePreference = "timeline_preference"
	AnswerBudgetRange        = "budget_range"
	AnswerMotivation         = "motivation"
)

// DeriveSegments computes the segment labels for a session. The output order
// is stable so rule applicability stays deterministic.
func DeriveSegments(profile *UserProfile, answers FormData) []string {
	var segments []string

	if profile != nil {
		if profile.Profession != "" {
			segments = append(segments, SegmentProfessional)
		}
		if profile.HasChildren {
			segments = append(segments, SegmentHasChildren)
		}
		if profile.PreviousVisaAttempts > 0 {
			segments = append(segments, SegmentRetryApplicant)
		}
		for _, goal := range profile.ImmigrationGoals {
			switch strings.ToLower(goal) {
			case "career", "work", "job":
				segments = appendUnique(segments, SegmentCareerDriven)
			case "education", "study":
				segments = appendUnique(segments, SegmentEducationDriven)
			}
		}
	}

	family := answers.StringsValue(AnswerFamilyComposition)
	for _, member := range family {
		if strings.EqualFold(member, "children") {
			segments = appendUnique(segments, SegmentHasChildren)
		}
	}
	if len(family) > 1 {
		segments = appendUnique(segments, SegmentFamilyMove)
	}

	switch answers.StringValue(AnswerTimelinePreference) {
	case "asap", "6months":
		segments = append(segments, SegmentUrgentTimeline)
	}

	switch answers.StringValue(AnswerBudgetRange) {
	case "under_50k", "under_30k":
		segments = append(segments, SegmentBudgetConscious)
	}

	switch strings.ToLower(answers.StringValue(AnswerMotivation)) {
	case "career", "work":
		segments = appendUnique(segments, SegmentCareerDriven)
	case "education", "study":
		segments = appendUnique(segments, SegmentEducationDriven)
	}

	return segments
}

func appendUnique(segments []string, segment string) []string {
	for _, existing := range segments {
		if existing == segment {
			return segments
		}
	}
	return append(segments, segment)
}
