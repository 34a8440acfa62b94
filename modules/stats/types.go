package stats

// ServiceGetStats is the request-reply service name registered by this module.
const ServiceGetStats = "get-stats"

// OperationStats holds the counters for one operation.
type OperationStats struct {
	Succeeded      int64 `json:"succeeded"`
	Failed         int64 `json:"failed"`
	DivisionByZero int64 `json:"division_by_zero"`
}

// StatsRequest is the (empty) request for get-stats.
type StatsRequest struct{}

// StatsResponse summarizes all calculations seen since the process started.
type StatsResponse struct {
	Total      int64                     `json:"total"`
	Failed     int64                     `json:"failed"`
	Operations map[string]OperationStats `json:"operations"`
	Since      string                    `json:"since"`
}
