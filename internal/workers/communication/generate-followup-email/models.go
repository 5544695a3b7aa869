// internal/workers/communication/generate-followup-email/models.go
package generatefollowupemail

type Input struct {
	DealID     string `json:"dealId"`
	SenderName string `json:"senderName,omitempty"`
}

type Output struct {
	DealID      string `json:"dealId"`
	To          string `json:"to,omitempty"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	Tone        string `json:"tone"`
	Priority    string `json:"priority"`
	RiskLevel   string `json:"riskLevel"`
	GeneratedAt string `json:"generatedAt"`
}

// emailContext is the typed record the templates render against.
type emailContext struct {
	ContactName    string
	Company        string
	DealTitle      string
	Amount         float64
	Stage          string
	NextStep       string
	Score          int
	Priority       string
	RiskLevel      string
	InactivityDays int
	SenderName     string
}
