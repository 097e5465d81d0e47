package domain

// EmotionalAnalysis is the validated result of the emotional reading stage.
type EmotionalAnalysis struct {
	Tone               string             `json:"tone"`
	AudienceEngagement float64            `json:"audience_engagement"`
	EmotionScores      map[string]float64 `json:"emotion_scores,omitempty"`
	KeyMoments         []string           `json:"key_moments,omitempty"`
}

// SceneHeader is one parsed scene heading from the technical reading.
type SceneHeader struct {
	SceneNumber string  `json:"scene_number"`
	IntExt      string  `json:"int_ext"`
	DayNight    string  `json:"day_night"`
	Location    string  `json:"location"`
	PageEighths float64 `json:"page_eighths"`
}

// CharacterConsistency reports continuity findings from the technical reading.
type CharacterConsistency struct {
	Inconsistencies []string `json:"inconsistencies"`
}

// TechnicalAnalysis is the validated result of the technical reading stage.
type TechnicalAnalysis struct {
	IsValid              bool                 `json:"is_valid"`
	Scenes               []SceneHeader        `json:"scenes"`
	ExpectedElements     []string             `json:"expected_elements"`
	CharacterConsistency CharacterConsistency `json:"character_consistency"`
}

// BreakdownAnalysis is the validated result of the production-breakdown
// reading stage. It carries collaborator hints that enrich local
// classification context; the elements themselves are always produced by the
// local classification engine.
type BreakdownAnalysis struct {
	SceneContext string   `json:"scene_context"`
	PropHints    []string `json:"prop_hints,omitempty"`
	CastHints    []string `json:"cast_hints,omitempty"`
}
