package models

type Flow string

const (
	FlowNone   Flow = "none"
	FlowLight  Flow = "light"
	FlowMedium Flow = "medium"
	FlowHeavy  Flow = "heavy"
)

func (flow Flow) IsValid() bool {
	switch flow {
	case FlowNone, FlowLight, FlowMedium, FlowHeavy:
		return true
	default:
		return false
	}
}

// IsBleeding reports whether the flow marks a period day.
func (flow Flow) IsBleeding() bool {
	return flow == FlowLight || flow == FlowMedium || flow == FlowHeavy
}

type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodCalm      Mood = "calm"
	MoodTired     Mood = "tired"
	MoodAnxious   Mood = "anxious"
	MoodIrritated Mood = "irritated"
	MoodSad       Mood = "sad"
)

func (mood Mood) IsValid() bool {
	switch mood {
	case MoodHappy, MoodCalm, MoodTired, MoodAnxious, MoodIrritated, MoodSad:
		return true
	default:
		return false
	}
}

type Symptom string

const (
	SymptomCramps   Symptom = "cramps"
	SymptomHeadache Symptom = "headache"
	SymptomBloating Symptom = "bloating"
	SymptomFatigue  Symptom = "fatigue"
	SymptomAcne     Symptom = "acne"
	SymptomInsomnia Symptom = "insomnia"
	SymptomBackPain Symptom = "backpain"
	SymptomNausea   Symptom = "nausea"
)

func SymptomCatalog() []Symptom {
	return []Symptom{
		SymptomCramps,
		SymptomHeadache,
		SymptomBloating,
		SymptomFatigue,
		SymptomAcne,
		SymptomInsomnia,
		SymptomBackPain,
		SymptomNausea,
	}
}

func (symptom Symptom) IsValid() bool {
	for _, known := range SymptomCatalog() {
		if symptom == known {
			return true
		}
	}
	return false
}

type Goal string

const (
	GoalTrack     Goal = "track"
	GoalPregnant  Goal = "pregnant"
	GoalPregnancy Goal = "pregnancy"
)

func (goal Goal) IsValid() bool {
	return goal == GoalTrack || goal == GoalPregnant || goal == GoalPregnancy
}

type Phase string

const (
	PhasePeriod     Phase = "period"
	PhaseFollicular Phase = "follicular"
	PhaseOvulation  Phase = "ovulation"
	PhaseLuteal     Phase = "luteal"
)
