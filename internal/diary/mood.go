package diary

// Mood 对话流程的三档情绪刻度
// Mood is the three-way scale used by the conversation flow.
type Mood string

const (
	MoodGood    Mood = "good"
	MoodNeutral Mood = "neutral"
	MoodBad     Mood = "bad"
)

// Emotion 单次记录流程的细分情绪标签
// Emotion is the richer label set used by the single-shot flow.
type Emotion string

const (
	EmotionJoy           Emotion = "joy"
	EmotionSadness       Emotion = "sadness"
	EmotionAnger         Emotion = "anger"
	EmotionAnxiety       Emotion = "anxiety"
	EmotionCalm          Emotion = "calm"
	EmotionExhaustion    Emotion = "exhaustion"
	EmotionLoneliness    Emotion = "loneliness"
	EmotionEmbarrassment Emotion = "embarrassment"
	EmotionUnspecified   Emotion = "unspecified"
)

// PlaceholderGlyph marks calendar days without a record.
const PlaceholderGlyph = "⬜"

var moodGlyphs = map[Mood]string{
	MoodGood:    "😊",
	MoodNeutral: "😌",
	MoodBad:     "😟",
}

var emotionGlyphs = map[Emotion]string{
	EmotionJoy:           "😊",
	EmotionSadness:       "😢",
	EmotionAnger:         "😠",
	EmotionAnxiety:       "😟",
	EmotionCalm:          "😌",
	EmotionExhaustion:    "😩",
	EmotionLoneliness:    "😔",
	EmotionEmbarrassment: "😳",
	EmotionUnspecified:   PlaceholderGlyph,
}

// Moods lists the conversation-flow scale in display order.
func Moods() []Mood {
	return []Mood{MoodGood, MoodNeutral, MoodBad}
}

// Emotions lists the single-shot label set in display order.
func Emotions() []Emotion {
	return []Emotion{
		EmotionJoy, EmotionSadness, EmotionAnger, EmotionAnxiety,
		EmotionCalm, EmotionExhaustion, EmotionLoneliness, EmotionEmbarrassment,
		EmotionUnspecified,
	}
}

// Valid reports whether m belongs to the closed mood set.
func (m Mood) Valid() bool {
	_, ok := moodGlyphs[m]
	return ok
}

// Glyph returns the calendar glyph for the mood.
func (m Mood) Glyph() string {
	if g, ok := moodGlyphs[m]; ok {
		return g
	}
	return PlaceholderGlyph
}

// Valid reports whether e belongs to the closed emotion set.
func (e Emotion) Valid() bool {
	_, ok := emotionGlyphs[e]
	return ok
}

// Glyph returns the calendar glyph for the emotion.
func (e Emotion) Glyph() string {
	if g, ok := emotionGlyphs[e]; ok {
		return g
	}
	return PlaceholderGlyph
}
