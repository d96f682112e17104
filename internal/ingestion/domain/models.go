// Package domain defines the ingestion batch contract.
package domain

// IngestFileRequest carries one uploaded policy transaction export.
// CompanyID is optional; when empty the company is resolved from the
// filename via the configured name transform.
type IngestFileRequest struct {
	CompanyID string
	Filename  string
	Content   []byte
}

// RowError records one rejected row. PolicyNo may be empty when the policy
// number itself was missing.
type RowError struct {
	PolicyNo string `json:"policy_no"`
	Error    string `json:"error"`
}

// IngestionBatch is the in-memory result of one upload. It is never
// persisted; it exists for the duration of one request.
type IngestionBatch struct {
	BatchID           string     `json:"batch_id"`
	CompanyID         string     `json:"company_id"`
	TotalRows         int        `json:"total_rows"`
	Inserted          int        `json:"inserted"`
	SkippedDuplicates int        `json:"skipped_duplicates"`
	ErrorsCount       int        `json:"errors_count"`
	Errors            []RowError `json:"errors"`
}
