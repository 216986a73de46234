package models

// RunRequest represents the query parameters of POST /api/v1/pipeline/run
type RunRequest struct {
	// Hours is the lookback window; the configured default is used when omitted.
	Hours *int `form:"hours" binding:"omitempty,min=0,max=8760"`
}
