// Package annotate drives the external annotation service: a
// vision-capable chat-completions endpoint that returns structured
// per-frame safety findings for batches of hallway frames.
package annotate

// BatchAnalysis is the structured payload the annotation service
// returns for one batch of frames.
type BatchAnalysis struct {
	IncorrectParking   bool          `json:"incorrectParking"`
	WasteMaterial      bool          `json:"wasteMaterial"`
	OverallExplanation string        `json:"overallExplanation"`
	FrameDetails       []FrameDetail `json:"frameDetails"`
}

// FrameDetail is the service's findings for a single frame.
type FrameDetail struct {
	FrameIndex           int                 `json:"frameIndex"`
	Timestamp            string              `json:"timestamp"`
	DetailedObservations string              `json:"detailedObservations"`
	IdentifiedObjects    []IdentifiedObject  `json:"identifiedObjects"`
	SafetyIssues         []SafetyIssue       `json:"safetyIssues"`
	PathwayClearance     string              `json:"pathwayClearance"`
	EmergencyAccess      string              `json:"emergencyAccess"`
	RecommendedActions   []RecommendedAction `json:"recommendedActions"`
}

// IdentifiedObject is one visible object the service called out.
type IdentifiedObject struct {
	ObjectType      string `json:"objectType"`
	Location        string `json:"location"`
	SafetyRelevance string `json:"safetyRelevance"`
	Confidence      string `json:"confidence"`
}

// SafetyIssue is one structured safety finding. Confidence is the
// service's 1-10 numeric scale, not a probability.
type SafetyIssue struct {
	Type               string  `json:"type"`
	Severity           string  `json:"severity"`
	Confidence         float64 `json:"confidence"`
	Reasoning          string  `json:"reasoning"`
	Description        string  `json:"description"`
	Location           string  `json:"location"`
	Impact             string  `json:"impact"`
	GridCells          string  `json:"gridCells"`
	MitigationStrategy string  `json:"mitigationStrategy"`
	Urgency            string  `json:"urgency"`
	EstimatedCost      string  `json:"estimatedCost"`
	ResponsibleParty   string  `json:"responsibleParty"`
}

// RecommendedAction is one follow-up the service suggests for a frame.
type RecommendedAction struct {
	Action    string `json:"action"`
	Priority  string `json:"priority"`
	Timeframe string `json:"timeframe"`
}
