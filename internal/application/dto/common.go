package dto

// ErrorResponse cuerpo de error HTTP. El frontend solo lee message.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Fail construye un ErrorResponse con success=false.
func Fail(code, message string) ErrorResponse {
	return ErrorResponse{Success: false, Code: code, Message: message}
}
