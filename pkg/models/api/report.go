package api

// Header mirrors the AI response header on the HTTP surface.
type Header struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

// ReportResponse wraps a report entity the way the service answers: the
// backend header plus the persisted content.
type ReportResponse struct {
	Header  Header `json:"header"`
	Content any    `json:"content,omitempty"`
}

// Problem is an RFC 7807 style error payload.
type Problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}
