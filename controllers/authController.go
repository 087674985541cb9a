package controllers

import (
	"fmt"
	"regexp"
	"strings"

	"zynvoice-backend/database"
	"zynvoice-backend/middlewares"
	"zynvoice-backend/models"

	"github.com/gofiber/fiber/v2"
)

type RegisterInput struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	CompanyName     string `json:"company_name" validate:"required"`
	Address         string `json:"address" validate:"required"`
	City            string `json:"city" validate:"required"`
	Country         string `json:"country" validate:"required"`
	Zip             string `json:"zip" validate:"required"`
	Homepage        string `json:"homepage" validate:"omitempty,url"`
	VatNumber       string `json:"vat_number"`
	PhoneNumber     string `json:"phone_number"`
	Salutation      string `json:"salutation"`
	Title           string `json:"title"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates the account, its billing contact and company profile in
// the public schema, then provisions and migrates the tenant schema all of
// the user's invoicing data will live in.
func Register(c *fiber.Ctx) error {
	var input RegisterInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var mailExist models.User
	database.DB.Where("email = ?", input.Email).First(&mailExist)
	if mailExist.Email != "" {
		return fiber.NewError(fiber.StatusConflict, "email already exists")
	}

	schemaName, err := createSchema(input.CompanyName)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "company name cannot be used as a tenant identifier")
	}

	tx := database.DB.Begin()

	user := models.User{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		SchemaName: schemaName,
	}
	if err := user.SetPassword(input.Password); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		return err
	}

	contactPerson := models.ContactPerson{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Salutation:  input.Salutation,
		Title:       input.Title,
		PhoneNumber: input.PhoneNumber,
	}
	if err := tx.Create(&contactPerson).Error; err != nil {
		tx.Rollback()
		return err
	}

	company := models.Company{
		CompanyName: input.CompanyName,
		Address:     input.Address,
		City:        input.City,
		Country:     input.Country,
		Zip:         input.Zip,
		Homepage:    input.Homepage,
		Email:       input.Email,
		VatNumber:   input.VatNumber,
		UserId:      user.Id,
		PId:         contactPerson.Id,
		SchemaName:  schemaName,
	}
	if err := tx.Create(&company).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	if err := database.MigrateTenantSchema(schemaName); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not provision tenant schema")
	}

	database.DB.Preload("User").Preload("ContactPerson").First(&company, "id = ?", company.Id)
	return c.Status(fiber.StatusCreated).JSON(company)
}

var schemaNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// createSchema derives a safe Postgres schema name from the company name and
// creates the schema if it does not exist yet.
func createSchema(companyName string) (string, error) {
	safeName := strings.ToLower(strings.TrimSpace(companyName))
	safeName = strings.ReplaceAll(safeName, " ", "_")
	if !schemaNamePattern.MatchString(safeName) {
		return "", fmt.Errorf("invalid schema name after sanitization: %s", safeName)
	}

	if err := database.DB.Exec("CREATE SCHEMA IF NOT EXISTS " + safeName).Error; err != nil {
		return "", err
	}
	return safeName, nil
}

func Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	var user models.User
	database.DB.Table("public.users").Where("email = ?", input.Email).First(&user)
	if user.Id == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if err := user.ComparePassword(input.Password); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := middlewares.GenerateJWT(user.Id, user.SchemaName)
	if err != nil {
		return err
	}

	// Re-run tenant migrations on login so schema changes roll out lazily.
	if err := database.MigrateTenantSchema(user.SchemaName); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not migrate tenant schema")
	}

	return c.JSON(fiber.Map{
		"token":  token,
		"schema": user.SchemaName,
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.FirstName + " " + user.LastName,
			"email": user.Email,
		},
	})
}

// Logout acknowledges the client discarding its bearer token. Tokens are
// stateless and expire on their own; there is no server-side session to tear
// down.
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "success",
	})
}
