package models

// Action is the trade direction of a recommendation.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// Priority ranks a recommendation for display and execution ordering.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Source identifies which engine produced a recommendation.
type Source string

const (
	SourceAlgorithmic Source = "algorithmic"
	SourceAdvisor     Source = "advisor"
)

// Recommendation is a single proposed trade. Transient: produced fresh each
// cycle and consumed once by the execution applier or discarded.
type Recommendation struct {
	Symbol          string   `json:"symbol"`
	Shares          int      `json:"shares"`
	Cost            float64  `json:"cost"`
	Category        Category `json:"category"`
	Action          Action   `json:"action"`
	Score           int      `json:"score"`
	Reasoning       string   `json:"reasoning"`
	DetailedReasons []string `json:"detailed_reasons,omitempty"`
	Priority        Priority `json:"priority"`
	Source          Source   `json:"source"`
}
