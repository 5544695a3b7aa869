// internal/workers/pipeline/compute-deal-attention/models.go
package computedealattention

type Input struct {
	// Limit caps the number of returned entries; 0 means no cap.
	Limit int `json:"limit,omitempty"`
}

// AttentionItem is the flattened process-variable view of one flagged deal.
type AttentionItem struct {
	DealID         string   `json:"dealId"`
	Title          string   `json:"title"`
	Company        string   `json:"company,omitempty"`
	Priority       string   `json:"priority"`
	Risk           string   `json:"risk"`
	Score          int      `json:"score"`
	InactivityDays int      `json:"inactivityDays"`
	SLADays        int      `json:"slaDays"`
	Reasons        []string `json:"reasons"`
}

type Output struct {
	Items       []AttentionItem `json:"items"`
	Count       int             `json:"count"`
	TotalOpen   int             `json:"totalOpen"`
	GeneratedAt string          `json:"generatedAt"`
}
