package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result resultado discriminado que devuelve toda la API:
// {success:true,data} o {success:false,error:{code,message}}.
type Result struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

// OK envuelve data en un resultado exitoso.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail resultado de error.
func Fail(code, message string) Result {
	return Result{Error: &ErrorResponse{Code: code, Message: message}}
}
