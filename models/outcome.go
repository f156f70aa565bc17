package models

// Image-resolution failure reasons reported by the in-page resolver.
const (
	ReasonNoSources     = "no-sources"
	ReasonAllFailed     = "all-candidates-failed"
	ReasonGlobalTimeout = "global-timeout"
)

// AttemptResult records one candidate-URL load attempt.
type AttemptResult struct {
	URL       string `json:"url"`
	Status    string `json:"status"` // "success", "error" or "timeout"
	ElapsedMs int    `json:"elapsed_ms"`
}

// ImageLoadOutcome is the per-placeholder result of image resolution. It is
// diagnostic only and never blocks PDF production. A sweep aborted by the
// global deadline appends a sentinel outcome with ReasonGlobalTimeout and no
// product identifiers.
type ImageLoadOutcome struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	Success     bool            `json:"success"`
	Attempts    []AttemptResult `json:"attempts"`
	Reason      string          `json:"reason,omitempty"`
}

// CountImageFailures returns how many placeholders failed to resolve,
// excluding the sentinel entry appended on a global-deadline abort.
func CountImageFailures(outcomes []ImageLoadOutcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.Success && (o.ProductID != "" || o.ProductCode != "") {
			n++
		}
	}
	return n
}
