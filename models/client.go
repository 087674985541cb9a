package models

// Client is a billable party an invoice is addressed to. Clients live in the
// tenant schema, so company_name/email uniqueness is per tenant.
type Client struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	CompanyName string `json:"company_name" gorm:"not null;unique"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" gorm:"unique;not null"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address" gorm:"not null"`
	City        string `json:"city" gorm:"not null"`
	Country     string `json:"country" gorm:"not null"`
	Zip         string `json:"zip" gorm:"not null"`
	Homepage    string `json:"homepage"`
	VatNumber   string `json:"vat_number"`
	Active      bool   `json:"-"`
}
