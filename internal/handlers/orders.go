package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/taplive-app/taplive_be/internal/models"
	"github.com/taplive-app/taplive_be/internal/realtime"
)

// openOrdersPageSize is the hard cap of the open-requests feed.
const openOrdersPageSize = 50

type OrderHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
	RDB *redis.Client
}

func NewOrderHandler(db *gorm.DB, hub *realtime.Hub, rdb *redis.Client) *OrderHandler {
	return &OrderHandler{DB: db, Hub: hub, RDB: rdb}
}

func toOrderResponse(o *models.Order) fiber.Map {
	meta := o.Status.Meta()

	resp := fiber.Map{
		"id":                   o.ID,
		"customer_id":          o.CustomerID,
		"assigned_provider_id": o.AssignedProviderID,
		"location_text":        o.LocationText,
		"category":             o.Category,
		"description":          o.Description,
		"preferred_time_text":  o.PreferredTimeText,
		"budget_usd":           o.BudgetUSD,
		"duration_minutes":     o.DurationMinutes,
		"language_preference":  o.LanguagePreference,
		"status":               o.Status,
		"status_label":         meta.Label,
		"status_badge":         meta.Badge,
		"created_at":           o.CreatedAt,
	}

	if o.Customer != nil {
		resp["customer"] = fiber.Map{"id": o.Customer.ID, "name": o.Customer.Name}
	}
	if o.AssignedProvider != nil {
		resp["assigned_provider"] = fiber.Map{"id": o.AssignedProvider.ID, "name": o.AssignedProvider.Name}
	}
	return resp
}

type CreateOrderReq struct {
	LocationText       string   `json:"location_text"`
	Category           string   `json:"category"`
	Description        string   `json:"description"`
	PreferredTimeText  string   `json:"preferred_time_text"`
	BudgetUSD          *float64 `json:"budget_usd"`
	DurationMinutes    *int     `json:"duration_minutes"`
	LanguagePreference string   `json:"language_preference"`
}

// Create opens a new request owned by the caller. Status is always "open",
// the provider slot always empty, whatever the body says.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req CreateOrderReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	location := strings.TrimSpace(req.LocationText)
	category := models.OrderCategory(strings.TrimSpace(req.Category))
	description := strings.TrimSpace(req.Description)

	errors := FieldErrors{}
	if location == "" {
		errors.Add("location_text", "Location is required")
	}
	if category == "" {
		errors.Add("category", "Category is required")
	} else if !category.Valid() {
		errors.Add("category", "Category must be explore, verify, assistance or other")
	}
	if description == "" {
		errors.Add("description", "Description is required")
	}
	if req.BudgetUSD != nil && *req.BudgetUSD < 0 {
		errors.Add("budget_usd", "Budget cannot be negative")
	}
	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		errors.Add("duration_minutes", "Duration must be a positive number of minutes")
	}

	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	o := models.Order{
		CustomerID:         userID,
		LocationText:       location,
		Category:           category,
		Description:        description,
		PreferredTimeText:  strings.TrimSpace(req.PreferredTimeText),
		BudgetUSD:          req.BudgetUSD,
		DurationMinutes:    req.DurationMinutes,
		LanguagePreference: strings.TrimSpace(req.LanguagePreference),
		Status:             models.OrderStatusOpen,
	}

	if err := h.DB.Create(&o).Error; err != nil {
		return fail500(c, "Failed to create request: "+err.Error())
	}

	realtime.PublishOrderEvent(c.Context(), h.RDB, realtime.OrderEvent{
		Type:       realtime.EventOrderCreated,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Request created",
		"data":    toOrderResponse(&o),
	})
}

// ListMine returns all of the caller's own requests, newest first.
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.DB.
		Preload("AssignedProvider").
		Where("customer_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return fail500(c, "Failed to load requests: "+err.Error())
	}

	data := make([]fiber.Map, 0, len(orders))
	for i := range orders {
		data = append(data, toOrderResponse(&orders[i]))
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

// ListOpen returns open requests from other customers, newest first,
// capped at openOrdersPageSize. Filtering is status + self-exclusion only.
func (h *OrderHandler) ListOpen(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.DB.
		Preload("Customer").
		Where("status = ? AND customer_id <> ?", models.OrderStatusOpen, userID).
		Order("created_at DESC").
		Limit(openOrdersPageSize).
		Find(&orders).Error; err != nil {
		return fail500(c, "Failed to load open requests: "+err.Error())
	}

	data := make([]fiber.Map, 0, len(orders))
	for i := range orders {
		data = append(data, toOrderResponse(&orders[i]))
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

// Accept claims an open request for the caller. The claim is a single
// conditional update guarded on status = 'open'; whoever gets zero rows
// affected lost the race and is told the request is gone, not given an error.
func (h *OrderHandler) Accept(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid order ID",
		})
	}

	res := h.DB.Model(&models.Order{}).
		Where("id = ? AND status = ? AND customer_id <> ?", orderID, models.OrderStatusOpen, userID).
		Updates(map[string]interface{}{
			"status":               models.OrderStatusAccepted,
			"assigned_provider_id": userID,
		})

	if res.Error != nil {
		return fail500(c, "Failed to accept request: "+res.Error.Error())
	}

	if res.RowsAffected == 0 {
		// figure out which "no" this is
		var o models.Order
		if err := h.DB.First(&o, "id = ?", orderID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Request not found",
			})
		}
		if o.CustomerID == userID {
			return fail200(c, "You cannot accept your own request")
		}
		return fail200(c, "Request is no longer available")
	}

	var o models.Order
	if err := h.DB.Preload("Customer").First(&o, "id = ?", orderID).Error; err != nil {
		return fail500(c, "Failed to reload request")
	}

	realtime.PublishOrderEvent(c.Context(), h.RDB, realtime.OrderEvent{
		Type:       realtime.EventOrderAccepted,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		ProviderID: o.AssignedProviderID,
		Status:     string(o.Status),
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Request accepted",
		"data":    toOrderResponse(&o),
	})
}

// GetOne returns a single request. Open requests are visible to anyone
// signed in; otherwise only the customer and the assigned provider may look.
func (h *OrderHandler) GetOne(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid order ID",
		})
	}

	var o models.Order
	if err := h.DB.
		Preload("Customer").
		Preload("AssignedProvider").
		First(&o, "id = ?", orderID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Request not found",
		})
	}

	isParty := o.CustomerID == userID ||
		(o.AssignedProviderID != nil && *o.AssignedProviderID == userID)
	if o.Status != models.OrderStatusOpen && !isParty {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Access denied",
		})
	}

	return c.JSON(fiber.Map{"success": true, "data": toOrderResponse(&o)})
}
