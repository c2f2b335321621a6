package types

// DailyUsage totals the external calls made on one day
type DailyUsage struct {
	Date             string `json:"date"`
	Calls            int64  `json:"calls"`
	Failures         int64  `json:"failures"`
	PromptTokens     int64  `json:"prompt_tokens"`
	CompletionTokens int64  `json:"completion_tokens"`
}

// UsageReport is returned by the usage endpoint
type UsageReport struct {
	Days  int          `json:"days"`
	Usage []DailyUsage `json:"usage"`
}
