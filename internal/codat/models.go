package codat

// Company is a Codat company record.
type Company struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Redirect string `json:"redirect"`
}

// Connection source types.
const (
	SourceTypeAccounting = "Accounting"
	SourceTypeExpense    = "Expense"
)

// Connection links a company to a data source.
type Connection struct {
	ID         string `json:"id"`
	SourceType string `json:"sourceType"`
	Status     string `json:"status"`
}

// Statuses used to filter mapping options to active records.
const (
	CustomerStatusActive = "Active"
	SupplierStatusActive = "Active"
)

type BankAccount struct {
	ID          string  `json:"id"`
	AccountName string  `json:"accountName"`
	Currency    string  `json:"currency"`
	Balance     float64 `json:"balance"`
}

type Customer struct {
	ID           string `json:"id"`
	CustomerName string `json:"customerName"`
	ContactName  string `json:"contactName"`
	Status       string `json:"status"`
}

type Supplier struct {
	ID           string `json:"id"`
	SupplierName string `json:"supplierName"`
	ContactName  string `json:"contactName"`
	Status       string `json:"status"`
}

// RecordRef points at a record in the destination accounting package.
type RecordRef struct {
	ID string `json:"id"`
}

// ContactRef points an expense at a counterparty (customer or supplier).
type ContactRef struct {
	ID          string `json:"id"`
	ContactType string `json:"contactType,omitempty"`
}

type ExpenseLine struct {
	NetAmount    float64     `json:"netAmount"`
	TaxAmount    float64     `json:"taxAmount"`
	AccountRef   RecordRef   `json:"accountRef"`
	TaxRateRef   RecordRef   `json:"taxRateRef"`
	TrackingRefs []RecordRef `json:"trackingRefs,omitempty"`
}

type ExpenseTransaction struct {
	ID           string        `json:"id"`
	Type         string        `json:"type"`
	Currency     string        `json:"currency"`
	IssueDate    string        `json:"issueDate"`
	MerchantName string        `json:"merchantName"`
	Notes        string        `json:"notes,omitempty"`
	ContactRef   *ContactRef   `json:"contactRef,omitempty"`
	Lines        []ExpenseLine `json:"lines"`
}

// CreateExpenseRequest bundles expense transactions into one dataset.
type CreateExpenseRequest struct {
	Items []ExpenseTransaction `json:"items"`
}

// CompanyConfiguration is the mapping saved against a company before syncing.
type CompanyConfiguration struct {
	BankAccount RecordRef `json:"bankAccount"`
	Customer    RecordRef `json:"customer"`
	Supplier    RecordRef `json:"supplier"`
}

// SyncStatus is the live status detail for one sync attempt.
type SyncStatus struct {
	CompanyID    string `json:"companyId"`
	SyncID       string `json:"syncId"`
	SyncStatus   string `json:"syncStatus"`
	ErrorMessage string `json:"errorMessage"`
}
