// internal/workers/scoring/classify-deal-risk/models.go
package classifydealrisk

type Input struct {
	DealID string `json:"dealId"`
}

type Output struct {
	DealID         string `json:"dealId"`
	RiskLevel      string `json:"riskLevel"`
	InactivityDays int    `json:"inactivityDays"`
	MissingNext    bool   `json:"missingNextStep"`
	TargetOverdue  bool   `json:"targetOverdue"`
}

// inputSchema guards the job payload before any store access.
const inputSchema = `{
	"type": "object",
	"properties": {
		"dealId": {"type": "string", "minLength": 1}
	},
	"required": ["dealId"]
}`
