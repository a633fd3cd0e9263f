package models

// RejectionReason classifies why a recommendation was not applied. The
// original design dropped these silently; rejections are now explicit and
// observable.
type RejectionReason string

const (
	RejectInsufficientFunds  RejectionReason = "insufficient_funds"
	RejectInsufficientShares RejectionReason = "insufficient_shares"
	RejectNotHeld            RejectionReason = "not_held"
	RejectInvalid            RejectionReason = "invalid_recommendation"
)

// Rejection records a recommendation the applier refused, with the reason.
// A rejected recommendation changes neither cash nor holdings and appends
// nothing to the execution log.
type Rejection struct {
	Recommendation Recommendation  `json:"recommendation"`
	Reason         RejectionReason `json:"reason"`
	Detail         string          `json:"detail"`
}

// ApplyResult summarizes one execution batch.
type ApplyResult struct {
	TotalInvested float64     `json:"total_invested"`
	TotalSold     float64     `json:"total_sold"`
	Applied       int         `json:"applied"`
	Rejections    []Rejection `json:"rejections,omitempty"`
}
