package response

// Envelope is the body every recommendation endpoint returns.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

type ErrorBody struct {
	Success bool       `json:"success"`
	Error   ErrorField `json:"error"`
	Message string     `json:"message"`
}

type ErrorField struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func Success(data any) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
	}
}

// Fail is the short error form: {success:false,message:...}.
func Fail(message string) map[string]any {
	return map[string]any{
		"success": false,
		"message": message,
	}
}

func Error(code, message string, details any) ErrorBody {
	return ErrorBody{
		Success: false,
		Error: ErrorField{
			Code:    code,
			Details: details,
		},
		Message: message,
	}
}
