package httpapi

// Result is the response envelope of every JSON endpoint.
// - code: ResultSuccess on success, ResultError for business failures
// - type: "success" | "error"
// - message: "ok" or the raw error text
// - result: payload
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
	// ResultTokenExpired goes out with HTTP 401 so clients can refresh the session.
	ResultTokenExpired = 60401
	ResultForbidden    = 60403
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

func failWithCode(code int, message string) Result[any] {
	return Result[any]{Code: code, Type: "error", Message: message, Result: nil}
}
