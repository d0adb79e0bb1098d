package webhook

// Rule types carried in the envelope's RuleType discriminator.
const (
	RuleTypeSyncCompleted     = "Sync Completed"
	RuleTypeSyncFailed        = "Sync Failed"
	RuleTypeDataSyncCompleted = "Data sync completed"
)

// Reference data types whose pull completion gates the configuration step.
const (
	DataTypeCustomers    = "customers"
	DataTypeSuppliers    = "suppliers"
	DataTypeBankAccounts = "bankAccounts"
)

// Envelope is the payload the platform delivers to the registered webhook
// consumer. Field casing follows the platform's legacy alert format.
type Envelope struct {
	AlertID    string    `json:"AlertId"`
	ClientID   string    `json:"ClientId"`
	ClientName string    `json:"ClientName"`
	CompanyID  string    `json:"CompanyId"`
	Message    string    `json:"Message"`
	RuleID     string    `json:"RuleId"`
	RuleType   string    `json:"RuleType"`
	Data       EventData `json:"Data"`
}

// EventData is the union of the inner payload shapes. RuleType decides which
// half is meaningful.
type EventData struct {
	// Dataset (pull) completion events
	DataType  string `json:"dataType"`
	DatasetID string `json:"datasetId"`

	// Sync lifecycle events
	SyncID                 string `json:"syncId"`
	SyncType               string `json:"syncType"`
	SyncDateRangeStartUTC  string `json:"syncDateRangeStartUtc"`
	SyncDateRangeFinishUTC string `json:"syncDateRangeFinishUtc"`
}
