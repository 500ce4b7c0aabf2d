package domain

// Mood is one of the six check-in moods a user can record.
type Mood string

// The closed set of moods. Anything else fails validation.
const (
	MoodGreat    Mood = "Great"
	MoodGood     Mood = "Good"
	MoodNeutral  Mood = "Neutral"
	MoodAnxious  Mood = "Anxious"
	MoodStressed Mood = "Stressed"
	MoodTired    Mood = "Tired"
)

// Moods lists all valid moods in display order.
var Moods = []Mood{MoodGreat, MoodGood, MoodNeutral, MoodAnxious, MoodStressed, MoodTired}

// moodOrdinals is the fixed mapping used for charting. Higher is better.
var moodOrdinals = map[Mood]int{
	MoodGreat:    5,
	MoodGood:     4,
	MoodNeutral:  3,
	MoodAnxious:  2,
	MoodStressed: 1,
	MoodTired:    0,
}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	_, ok := moodOrdinals[m]
	return ok
}

// Ordinal returns the numeric chart value for the mood (Great=5 ... Tired=0).
// Unknown moods map to 0; callers are expected to validate first.
func (m Mood) Ordinal() int {
	return moodOrdinals[m]
}

// SuggestedTriggers are the situational factors offered in the entry form.
// They are suggestions only: an entry may carry any trigger string.
var SuggestedTriggers = []string{
	"Social Event",
	"Work Stress",
	"Family Issues",
	"Boredom",
	"Celebration",
}
