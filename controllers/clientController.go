package controllers

import (
	"zynvoice-backend/database"
	"zynvoice-backend/middlewares"
	"zynvoice-backend/models"
	"zynvoice-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ClientInput struct {
	CompanyName string `json:"company_name" validate:"required"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	Country     string `json:"country" validate:"required"`
	Zip         string `json:"zip" validate:"required"`
	Homepage    string `json:"homepage" validate:"omitempty,url"`
	VatNumber   string `json:"vat_number"`
}

// ClientPatch carries only the fields present in the request body; nil
// pointers are left out of the update entirely.
type ClientPatch struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	Country     *string `json:"country"`
	Zip         *string `json:"zip"`
	Homepage    *string `json:"homepage"`
	VatNumber   *string `json:"vat_number"`
}

func CreateClient(c *fiber.Ctx) error {
	var input ClientInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	client := models.Client{
		CompanyName: input.CompanyName,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		City:        input.City,
		Country:     input.Country,
		Zip:         input.Zip,
		Homepage:    input.Homepage,
		VatNumber:   input.VatNumber,
		Active:      true,
	}
	if err := tenantDB.Create(&client).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func GetClients(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	var clients []models.Client
	if err := tenantDB.Order("company_name ASC").Find(&clients).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"clients": clients})
}

func GetClient(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	var client models.Client
	if err := tenantDB.First(&client, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}
	return c.JSON(client)
}

func UpdateClient(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid client id")
	}

	var patch ClientPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	var client models.Client
	if err := tenantDB.First(&client, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "client not found")
	}
	if err := tenantDB.Model(&client).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(client)
}
