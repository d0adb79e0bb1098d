package configuration

// SelectOption is one entry in a mapping dropdown.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CompanyConfigData is everything the configuration page needs to render.
type CompanyConfigData struct {
	CompanyName  string         `json:"companyName"`
	Suppliers    []SelectOption `json:"suppliers"`
	Customers    []SelectOption `json:"customers"`
	BankAccounts []SelectOption `json:"bankAccounts"`
}

type SaveConfigRequest struct {
	SupplierID    string `json:"supplierId"`
	CustomerID    string `json:"customerId"`
	BankAccountID string `json:"bankAccountId"`
}
