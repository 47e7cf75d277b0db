package caption

// Status tags the outcome of one caption attempt.
type Status string

const (
	StatusSuccess      Status = "success"
	StatusEmpty        Status = "empty_response"
	StatusHTTPError    Status = "http_error"
	StatusNetworkError Status = "network_error"
)

// Result is the tagged outcome of a single caption call. It is never
// persisted; the caller's fallback policy consumes it immediately.
type Result struct {
	Status     Status
	Text       string
	HTTPStatus int
	Err        error
}

// OK reports whether the attempt produced usable caption text.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

func success(text string) Result {
	return Result{Status: StatusSuccess, Text: text}
}

func emptyResponse() Result {
	return Result{Status: StatusEmpty}
}

func httpError(code int) Result {
	return Result{Status: StatusHTTPError, HTTPStatus: code}
}

func networkError(err error) Result {
	return Result{Status: StatusNetworkError, Err: err}
}
