package models

// ContactPerson is the billing contact printed on invoices for a company.
type ContactPerson struct {
	Id          uint   `json:"id" gorm:"primaryKey"`
	FirstName   string `json:"first_name" gorm:"not null"`
	LastName    string `json:"last_name" gorm:"not null"`
	PhoneNumber string `json:"phone_number" gorm:"not null"`
	Salutation  string `json:"salutation"`
	Title       string `json:"title"`
}
