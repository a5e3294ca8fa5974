package view

import "bear/internal/services/companies/domain"

// LoginData feeds the sign in form
type LoginData struct {
	Username  string
	Error     string
	SignedOut bool
}

// DashboardData feeds the console landing page
type DashboardData struct {
	Company    domain.Company
	Companies  []domain.Company
	Subject    string
	Role       string
	SuperAdmin bool
	Error      string
}

// SelectCompanyData feeds the super admin company picker
type SelectCompanyData struct {
	Companies []domain.Company
	Error     string
}

// CompanyData feeds the settings view and the public tenant home
type CompanyData struct {
	Company domain.Company
}
