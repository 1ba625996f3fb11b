package dto

// Response is the uniform success envelope for single-object endpoints.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse is the envelope for paginated list endpoints.
type ListResponse struct {
	Success     bool        `json:"success"`
	Count       int         `json:"count"`
	TotalCount  int64       `json:"totalCount"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	Data        interface{} `json:"data"`
}

// OK wraps data in a success envelope.
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// OKMessage wraps data and a human-readable message in a success envelope.
func OKMessage(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}
