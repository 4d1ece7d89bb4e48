package resp

type ErrorCode string

const (
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeRateLimit     ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeAIUnavailable ErrorCode = "AI_UNAVAILABLE"
)

// ErrorBody 错误详情
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

// ErrorResponse 统一错误响应 {"error": {...}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func NewError(code ErrorCode, message string, details any) *ErrorResponse {
	return &ErrorResponse{Error: ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	}}
}

// Status 健康检查等简单响应
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
