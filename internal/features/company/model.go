package company

type CreateCompanyRequest struct {
	CompanyName string `json:"companyName"`
}

// CreateCompanyResponse carries the new company id and the hosted link the
// browser is redirected to for connecting an accounting package.
type CreateCompanyResponse struct {
	ID       string `json:"id"`
	Redirect string `json:"redirect"`
}
