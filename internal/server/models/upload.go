package models

// UploadResult is the outcome for a single file of an upload batch.
type UploadResult struct {
	Success  bool   `json:"success"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
	FileName string `json:"fileName"`
}

type UploadSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// UploadBatchResult lists per-file results in input order.
type UploadBatchResult struct {
	Results []UploadResult `json:"results"`
	Summary UploadSummary  `json:"summary"`
}
