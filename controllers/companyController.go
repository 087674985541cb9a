package controllers

import (
	"zynvoice-backend/database"
	"zynvoice-backend/models"
	"zynvoice-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// CompanyPatch updates the sender profile printed on invoices. Company rows
// live in the public schema keyed by the authenticated user.
type CompanyPatch struct {
	CompanyName *string `json:"company_name"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	Zip         *string `json:"zip"`
	Homepage    *string `json:"homepage"`
	Email       *string `json:"email"`
	VatNumber   *string `json:"vat_number"`
}

func currentCompany(c *fiber.Ctx) (*models.Company, error) {
	userID, _ := c.Locals("userID").(string)
	if userID == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
	}
	var company models.Company
	if err := database.DB.Preload("User").Preload("ContactPerson").
		Where("user_id = ?", userID).First(&company).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "company profile not found")
	}
	return &company, nil
}

func GetCompany(c *fiber.Ctx) error {
	company, err := currentCompany(c)
	if err != nil {
		return err
	}
	return c.JSON(company)
}

func UpdateCompany(c *fiber.Ctx) error {
	var patch CompanyPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	company, err := currentCompany(c)
	if err != nil {
		return err
	}
	if err := database.DB.Model(company).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(company)
}
