package expense

// TrackingCategory is a user-defined dimension for classifying an expense
// line, sourced from the destination accounting package.
type TrackingCategory struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ExpenseItem is one client-curated expense record.
type ExpenseItem struct {
	ID           string             `json:"id"`
	EmployeeName string             `json:"employeeName"`
	Description  string             `json:"description"`
	Categories   []TrackingCategory `json:"categories"`
	AccountID    string             `json:"accountId"`
	TaxRateID    string             `json:"taxRateId"`
	Merchant     string             `json:"merchant"`
	Note         string             `json:"note"`
	NetAmount    float64            `json:"netAmount"`
	TaxAmount    float64            `json:"taxAmount"`
	Type         string             `json:"type,omitempty"`
	ContactID    string             `json:"contactId,omitempty"`
	Sync         bool               `json:"sync,omitempty"`
}

// SubmitSyncResponse returns the identifier the client polls with.
type SubmitSyncResponse struct {
	SyncID string `json:"syncId"`
}

// GetSyncResponse is the resolved outcome of one sync attempt.
type GetSyncResponse struct {
	Result       string `json:"result"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// ImportResponse carries expenses parsed from an uploaded spreadsheet.
type ImportResponse struct {
	Items []ExpenseItem `json:"items"`
}
