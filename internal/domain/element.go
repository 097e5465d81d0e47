// Package domain defines the data model shared by the breakdown pipeline:
// production elements, evidence, breakdown sheets, conflicts, and reports.
package domain

import "time"

// Category identifies one of the 21 fixed breakdown categories.
type Category string

// The 21 breakdown categories (industry-standard breakdown sheet layout).
const (
	CategoryCast              Category = "cast"
	CategoryExtras            Category = "extras"
	CategoryStunts            Category = "stunts"
	CategoryAnimals           Category = "animals"
	CategoryAnimalHandler     Category = "animal_handler"
	CategorySecurity          Category = "security"
	CategoryAdditionalLabor   Category = "additional_labor"
	CategoryProps             Category = "props"
	CategoryWardrobe          Category = "wardrobe"
	CategoryMakeupHair        Category = "makeup_hair"
	CategoryVehicles          Category = "vehicles"
	CategorySetDressing       Category = "set_dressing"
	CategoryGreenery          Category = "greenery"
	CategorySpecialEffects    Category = "special_effects"
	CategoryVisualEffects     Category = "visual_effects"
	CategoryMechanicalEffects Category = "mechanical_effects"
	CategorySound             Category = "sound"
	CategoryMusic             Category = "music"
	CategoryCamera            Category = "camera"
	CategorySpecialEquipment  Category = "special_equipment"
	CategoryMiscellaneous     Category = "miscellaneous"
)

// Family groups categories for reporting.
type Family string

// Category families.
const (
	FamilyPeople      Family = "people"
	FamilyHandheld    Family = "handheld"
	FamilyEnvironment Family = "environment"
	FamilyServices    Family = "services"
)

// PriorityLevel is the production priority of a breakdown sheet.
type PriorityLevel string

// Sheet priority levels, ordered high > medium > low.
const (
	PriorityHigh   PriorityLevel = "high"
	PriorityMedium PriorityLevel = "medium"
	PriorityLow    PriorityLevel = "low"
)

// ClassificationRule matches script text against one category.
// Rules are data, not code: adding a category is a table change.
type ClassificationRule struct {
	Category            Category `json:"category"`
	Keywords            []string `json:"keywords"`
	ContextPatterns     []string `json:"context_patterns"`
	ExclusionPatterns   []string `json:"exclusion_patterns"`
	ConfidenceThreshold float64  `json:"confidence_threshold"`
	Priority            int      `json:"priority"`
}

// Evidence records why a span of text was classified into a category.
// Invariant: 0 <= SpanStart < SpanEnd <= len(source text).
type Evidence struct {
	SpanStart   int     `json:"span_start"`
	SpanEnd     int     `json:"span_end"`
	TextExcerpt string  `json:"text_excerpt"`
	Rationale   string  `json:"rationale"`
	Confidence  float64 `json:"confidence"`
}

// Provenance records which agent produced an element.
type Provenance struct {
	AgentType     string    `json:"agent_type"`
	AgentVersion  string    `json:"agent_version"`
	ModelUsed     string    `json:"model_used"`
	PromptVersion string    `json:"prompt_version"`
	Timestamp     time.Time `json:"timestamp"`
}

// ElementContext carries the scene context an element was extracted from.
// Only SceneContext is always present.
type ElementContext struct {
	SceneContext     string `json:"scene_context"`
	CharacterContext string `json:"character_context,omitempty"`
	TimingContext    string `json:"timing_context,omitempty"`
	LocationContext  string `json:"location_context,omitempty"`
}

// ProductionElement is a detected item, person-role, or service relevant to
// production planning. Immutable once created; later stages filter, never
// mutate. Confidence always equals Evidence.Confidence.
type ProductionElement struct {
	ID           string         `json:"id"`
	Category     Category       `json:"category"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	SceneID      string         `json:"scene_id"`
	Evidence     Evidence       `json:"evidence"`
	Confidence   float64        `json:"confidence"`
	ExtractedBy  Provenance     `json:"extracted_by"`
	Context      ElementContext `json:"context"`
	Dependencies []string       `json:"dependencies"`
}

// BreakdownSheet is a per-category grouping of elements prepared for
// department handoff. Derived data: recomputed whenever the element set
// changes, never stored independently of its elements.
type BreakdownSheet struct {
	Category      Category            `json:"category"`
	CategoryName  string              `json:"category_name"`
	Family        Family              `json:"family"`
	ColorCode     string              `json:"color_code"`
	Items         []ProductionElement `json:"items"`
	TotalCount    int                 `json:"total_count"`
	PriorityLevel PriorityLevel       `json:"priority_level"`
	Department    string              `json:"department"`
}
