package questionnaire

// UserProfile is the slice of the external profile service's document the
// engine consumes. The engine treats it as read-only input.
type UserProfile struct {
	ID                   string   `json:"id" yaml:"id"`
	Profession           string   `json:"profession,omitempty" yaml:"profession,omitempty"`
	EducationLevel       string   `json:"educationLevel,omitempty" yaml:"educationLevel,omitempty"`
	EnglishLevel         string   `json:"englishLevel,omitempty" yaml:"englishLevel,omitempty"`
	Country              string   `json:"country,omitempty" yaml:"country,omitempty"`
	ExperienceYears      *int     `json:"experienceYears,omitempty" yaml:"experienceYears,omitempty"`
	FamilyStatus         string   `json:"familyStatus,omitempty" yaml:"familyStatus,omitempty"`
	HasChildren          bool     `json:"hasChildren,omitempty" yaml:"hasChildren,omitempty"`
	AgeRange             string   `json:"ageRange,omitempty" yaml:"ageRange,omitempty"`
	IncomeRange          string   `json:"incomeRange,omitempty" yaml:"incomeRange,omitempty"`
	PreviousVisaAttempts int      `json:"previousVisaAttempts,omitempty" yaml:"previousVisaAttempts,omitempty"`
	ImmigrationGoals     []string `json:"immigrationGoals,omitempty" yaml:"immigrationGoals,omitempty"`
}

// Field looks up a profile attribute by its document name. The second return
// reports whether the attribute is defined (non-zero), matching the `!empty`
// requirement sentinel used by validation rules.
func (p *UserProfile) Field(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	switch name {
	case "id":
		return p.ID, p.ID != ""
	case "profession":
		return p.Profession, p.Profession != ""
	case "education_level", "educationLevel":
		return p.EducationLevel, p.EducationLevel != ""
	case "english_level", "englishLevel":
		return p.EnglishLevel, p.EnglishLevel != ""
	case "country":
		return p.Country, p.Country != ""
	case "experience_years", "experienceYears":
		if p.ExperienceYears == nil {
			return nil, false
		}
		return *p.ExperienceYears, true
	case "family_status", "familyStatus":
		return p.FamilyStatus, p.FamilyStatus != ""
	case "has_children", "hasChildren":
		return p.HasChildren, true
	case "age_range", "ageRange":
		return p.AgeRange, p.AgeRange != ""
	case "income_range", "incomeRange":
		return p.IncomeRange, p.IncomeRange != ""
	case "previous_visa_attempts", "previousVisaAttempts":
		return p.PreviousVisaAttempts, p.PreviousVisaAttempts > 0
	case "immigration_goals", "immigrationGoals":
		return p.ImmigrationGoals, len(p.ImmigrationGoals) > 0
	default:
		return nil, false
	}
}

// AsContext flattens the profile into the map shape the condition evaluator
// reads. Nil profiles flatten to an empty map so expressions fall back to
// their missing-variable behaviour.
func (p *UserProfile) AsContext() map[string]any {
	out := make(map[string]any)
	if p == nil {
		return out
	}
	out["id"] = p.ID
	out["profession"] = p.Profession
	out["education_level"] = p.EducationLevel
	out["english_level"] = p.EnglishLevel
	out["country"] = p.Country
	if p.ExperienceYears != nil {
		out["experience_years"] = *p.ExperienceYears
	}
	out["family_status"] = p.FamilyStatus
	out["has_children"] = p.HasChildren
	out["age_range"] = p.AgeRange
	out["income_range"] = p.IncomeRange
	out["previous_visa_attempts"] = p.PreviousVisaAttempts
	out["immigration_goals"] = p.ImmigrationGoals
	return out
}
