package setting

const (
	KeyCompanyName = "company_name"
	KeyCompanyLogo = "company_logo"

	DefaultCompanyName = "Acme Corp"
)

type CompanyNameResponse struct {
	CompanyName string `json:"companyName"`
}

// CompanyLogoResponse carries a null logoUrl until a logo has been uploaded.
type CompanyLogoResponse struct {
	LogoURL *string `json:"logoUrl"`
}

type UpdateCompanyNameDTO struct {
	CompanyName string `json:"companyName"`
}

type UpdateCompanyNameResponse struct {
	Message     string `json:"message"`
	CompanyName string `json:"companyName"`
}

type UpdateCompanyLogoResponse struct {
	Message string `json:"message"`
	LogoURL string `json:"logoUrl"`
}
