package transport

// Envelope wraps every API response, success or error.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// ListMeta accompanies collection responses.
type ListMeta struct {
	Count int `json:"count"`
}

// ErrorDetail is the error body of an Envelope.
type ErrorDetail struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{Status: "success", Data: data, Meta: meta}
}

func NewList[T any](items []T) Envelope {
	if items == nil {
		items = []T{}
	}
	return NewSuccess(items, ListMeta{Count: len(items)})
}

func NewError(code string, detail ErrorDetail) Envelope {
	return Envelope{Status: "error", Code: code, Error: detail}
}
