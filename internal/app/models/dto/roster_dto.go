package dto

// ImportRowError describes a single failed row of a bulk import. Row numbers
// match the spreadsheet's own numbering: the header is row 1, so the first
// data row is reported as row 2.
type ImportRowError struct {
	Row       int    `json:"row" example:"4"`
	StudentID string `json:"student_id" example:"S2023001"`
	Error     string `json:"error" example:"student ID already exists"`
}

// ImportResult is the per-row tally of a bulk import
type ImportResult struct {
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Failed  int              `json:"failed"`
	Errors  []ImportRowError `json:"errors"`
}

// ImportResponse wraps the tally with a human-readable summary. It is
// returned with HTTP 200 even when individual rows failed; only structural
// failures produce a request-level error.
type ImportResponse struct {
	Message string       `json:"message"`
	Results ImportResult `json:"results"`
}

// BatchUploadRowError describes a single failed file of a batch photo upload
type BatchUploadRowError struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BatchUploadResult is the tally of a batch photo upload
type BatchUploadResult struct {
	Total   int                   `json:"total"`
	Success int                   `json:"success"`
	Failed  int                   `json:"failed"`
	Errors  []BatchUploadRowError `json:"errors"`
}
