package synth

import "github.com/ziadkadry99/notebase/internal/retriever"

// NoResultsAnswer is the fixed answer returned when retrieval finds
// nothing relevant.
const NoResultsAnswer = "I couldn't find any relevant notes for your question."

// AnswerResult is the response of Answer.
type AnswerResult struct {
	Answer     string             `json:"answer"`
	Sources    []retriever.Result `json:"sources"`
	Confidence float64            `json:"confidence"`
	AIPowered  bool               `json:"ai_powered"`
}

// SummaryResult is the response of Summarize.
type SummaryResult struct {
	Summary   string             `json:"summary"`
	Sources   []retriever.Result `json:"sources"`
	NoteCount int                `json:"note_count"`
	AIPowered bool               `json:"ai_powered"`
}

// Connection records a tag overlap between two retrieved notes.
// Note1/Note2 are titles; Strength is the shared tag count.
type Connection struct {
	Note1      string   `json:"note1"`
	Note2      string   `json:"note2"`
	SharedTags []string `json:"shared_tags"`
	Strength   int      `json:"strength"`
}

// AnalysisResult is the response of Analyze.
type AnalysisResult struct {
	Summary     string              `json:"summary"`
	Connections []Connection        `json:"connections"`
	Themes      map[string][]string `json:"themes"`
	NoteCount   int                 `json:"note_count"`
}

// ReflectionResult is the response of Reflect.
type ReflectionResult struct {
	Summary   string         `json:"summary"`
	NoteCount int            `json:"note_count"`
	Themes    map[string]int `json:"themes"`
	Insights  []string       `json:"insights"`
	AIPowered bool           `json:"ai_powered"`
}

// SuggestionsResult is the response of SuggestTopics.
type SuggestionsResult struct {
	Suggestions []string `json:"suggestions"`
	RecentCount int      `json:"recent_count"`
	AIPowered   bool     `json:"ai_powered"`
}

// TagCount is one trending topic with its recent occurrence count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// OrphanNote identifies a note carrying no tags.
type OrphanNote struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}
