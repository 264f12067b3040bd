package domain

// RunStatus tracks the lifecycle of a single transcription run.
type RunStatus string

const (
	RunStatusUploaded   RunStatus = "UPLOADED"
	RunStatusProcessing RunStatus = "PROCESSING"
	RunStatusDone       RunStatus = "DONE"
	RunStatusCancelled  RunStatus = "CANCELLED"
	RunStatusError      RunStatus = "ERROR"
)

// SegmentType classifies a structured segment as interviewer question or answer.
type SegmentType string

const (
	SegmentTypeQuestion SegmentType = "Question"
	SegmentTypeAnswer   SegmentType = "Answer"
)

// AudioChunk is one bounded slice of the canonicalized source audio.
type AudioChunk struct {
	Index       int     `json:"index"`
	Path        string  `json:"path"`
	StartOffset float64 `json:"startOffsetSeconds"`
}

// RawSegment is one transcription hypothesis in chunk-relative seconds.
// Speaker and Type carry the provisional tagging applied at transcription
// time; SegmentBuilder recomputes both during structuring.
type RawSegment struct {
	Start   float64     `json:"start"`
	End     float64     `json:"end"`
	Text    string      `json:"text"`
	Speaker string      `json:"speaker"`
	Type    SegmentType `json:"type"`
}

// DiarizationInterval is one speaker-attributed span in run-global seconds.
type DiarizationInterval struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// StructuredSegment is the fully enriched transcript unit persisted per run.
// Start and End are run-global seconds (chunk-relative plus chunk offset).
type StructuredSegment struct {
	Start        float64     `json:"start"`
	End          float64     `json:"end"`
	Speaker      string      `json:"speaker"`
	SpeakerColor string      `json:"speakerColor"`
	Type         SegmentType `json:"type"`
	Original     string      `json:"original"`
	English      string      `json:"english"`
}

// RunState is the persisted state record for one pipeline run.
type RunState struct {
	ID           string              `json:"id"`
	AudioPath    string              `json:"audioPath"`
	Status       RunStatus           `json:"status"`
	Progress     int                 `json:"progress"`
	CurrentStage string              `json:"currentStage"`
	ErrorMessage string              `json:"errorMessage,omitempty"`
	Segments     []StructuredSegment `json:"segments"`
}

// Settings contains user-selectable runtime configuration.
type Settings struct {
	FFmpegPath     string  `json:"ffmpegPath"`
	FFprobePath    string  `json:"ffprobePath"`
	WhisperPath    string  `json:"whisperPath"`
	ModelPath      string  `json:"modelPath"`
	WorkDir        string  `json:"workDir"`
	ChunkSeconds   float64 `json:"chunkSeconds"`
	OverlapSeconds float64 `json:"overlapSeconds"`
	MaxWorkers     int     `json:"maxWorkers"`
	FastMode       bool    `json:"fastMode"`
	LLMBaseURL     string  `json:"llmBaseUrl"`
	LLMAPIKey      string  `json:"-"`
	LLMModel       string  `json:"llmModel"`
}
