package controllers

import (
	"fmt"

	"zynvoice-backend/database"
	"zynvoice-backend/middlewares"
	"zynvoice-backend/models"
	"zynvoice-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ItemInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate" validate:"gte=0"`
}

type ItemPatch struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Rate        *float64 `json:"rate"`
	Active      *bool    `json:"active"`
}

// CreateItems batch-creates saved catalog items the invoice form can pull
// line items from.
func CreateItems(c *fiber.Ctx) error {
	var inputs []ItemInput
	if err := c.BodyParser(&inputs); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(inputs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "at least one item is required")
	}
	for i := range inputs {
		utils.NormalizeDTO(&inputs[i])
		if err := middlewares.ValidateStruct(&inputs[i]); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("invalid item at index %d", i))
		}
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	items := make([]models.Item, len(inputs))
	for i, input := range inputs {
		items[i] = models.Item{
			Name:        input.Name,
			Description: input.Description,
			Rate:        input.Rate,
			Active:      true,
		}
	}
	if err := tenantDB.Create(&items).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(items)
}

func GetItems(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	var items []models.Item
	if err := tenantDB.Where("active = ?", true).Order("name ASC").Find(&items).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

func UpdateItem(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}

	var patch ItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)
	if patch.Rate != nil && *patch.Rate < 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "rate must be zero or greater")
	}

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	var item models.Item
	if err := tenantDB.First(&item, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "item not found")
	}
	if err := tenantDB.Model(&item).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(item)
}
