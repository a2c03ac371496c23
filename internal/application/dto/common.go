package dto

// PageRequest pagination for listings.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage applies defaults when Limit/Offset are zero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse page metadata in responses.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse HTTP error body. Fields carries field-keyed validation
// messages; CorrelationID is set on internal errors so the client-visible body
// can stay generic while logs hold the detail.
type ErrorResponse struct {
	Code          string              `json:"code"`
	Message       string              `json:"message"`
	Fields        map[string][]string `json:"fields,omitempty"`
	CorrelationID string              `json:"correlation_id,omitempty"`
}
