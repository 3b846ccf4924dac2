package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/taplive-app/taplive_be/internal/models"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

// CustomerStats returns the caller's request counts by status.
func (h *DashboardHandler) CustomerStats(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	type row struct {
		Status models.OrderStatus
		Count  int64
	}
	var rows []row
	if err := h.DB.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Where("customer_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		log.Printf("[CustomerStats] Error counting orders for user %v: %v", userID, err)
	}

	counts := fiber.Map{
		"open":      int64(0),
		"accepted":  int64(0),
		"live":      int64(0),
		"completed": int64(0),
		"cancelled": int64(0),
	}
	var total int64
	for _, r := range rows {
		counts[string(r.Status)] = r.Count
		total += r.Count
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total":     total,
			"by_status": counts,
		},
	})
}

// ProviderStats summarises the caller's work as a provider.
func (h *DashboardHandler) ProviderStats(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var active int64
	if err := h.DB.Model(&models.Order{}).
		Where("assigned_provider_id = ?", userID).
		Where("status IN ?", []models.OrderStatus{
			models.OrderStatusAccepted,
			models.OrderStatusLive,
		}).
		Count(&active).Error; err != nil {
		log.Printf("[ProviderStats] Error counting active orders for user %v: %v", userID, err)
	}

	var completed int64
	h.DB.Model(&models.Order{}).
		Where("assigned_provider_id = ?", userID).
		Where("status = ?", models.OrderStatusCompleted).
		Count(&completed)

	// budgets of active assignments; not every request carries one
	var projected float64
	h.DB.Model(&models.Order{}).
		Where("assigned_provider_id = ?", userID).
		Where("status IN ?", []models.OrderStatus{
			models.OrderStatusAccepted,
			models.OrderStatusLive,
		}).
		Select("COALESCE(SUM(budget_usd), 0)").
		Scan(&projected)

	var openNearby int64
	h.DB.Model(&models.Order{}).
		Where("status = ? AND customer_id <> ?", models.OrderStatusOpen, userID).
		Count(&openNearby)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"active_assignments":  active,
			"completed_jobs":      completed,
			"projected_usd":       projected,
			"open_requests_total": openNearby,
		},
	})
}

// ProviderAssignments lists orders assigned to the caller.
func (h *DashboardHandler) ProviderAssignments(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var orders []models.Order
	var total int64

	q := h.DB.Model(&models.Order{}).
		Preload("Customer").
		Where("assigned_provider_id = ?", userID)

	status := c.Query("status")
	if status != "" {
		if !models.OrderStatus(status).Valid() {
			return fail200(c, "Invalid status filter")
		}
		q = q.Where("status = ?", status)
	}

	q.Count(&total)

	if err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error; err != nil {
		return fail500(c, "Failed to load assignments: "+err.Error())
	}

	data := make([]fiber.Map, 0, len(orders))
	for i := range orders {
		data = append(data, toOrderResponse(&orders[i]))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"meta": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
