package data

import "fmt"

// Error codes carried by FetchError.
const (
	CodeTimeout       = "TIMEOUT"
	CodeRequestFailed = "REQUEST_FAILED"
	CodeHTTPStatus    = "HTTP_STATUS"
	CodeDecodeFailed  = "DECODE_FAILED"
	CodeMissingColumn = "MISSING_COLUMN"
	CodeBadValue      = "BAD_VALUE"
)

// Source names used in logs, errors and metrics.
const (
	SourceBMRS = "bmrs"
	SourceNESO = "neso"
)

// FetchError is returned when an upstream dataset cannot be retrieved or parsed.
type FetchError struct {
	Source     string
	StatusCode int // 0 when no HTTP response was received
	Code       string
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s fetch: %s", e.Source, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the fetch failed because the request timed out.
func (e *FetchError) Timeout() bool {
	return e.Code == CodeTimeout
}
