package handlers

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/taplive-app/taplive_be/internal/models"
	"github.com/taplive-app/taplive_be/internal/utils"
)

type ProviderOnboardingHandler struct {
	DB         *gorm.DB
	JWTSecret  string
	ExpiresMin int
}

func NewProviderOnboardingHandler(db *gorm.DB, jwtSecret string, expiresMin int) *ProviderOnboardingHandler {
	return &ProviderOnboardingHandler{
		DB:         db,
		JWTSecret:  jwtSecret,
		ExpiresMin: expiresMin,
	}
}

// ========= Helpers =========

func fail200(c *fiber.Ctx, message string, extra ...fiber.Map) error {
	resp := fiber.Map{
		"success": false,
		"message": message,
	}
	if len(extra) > 0 {
		for k, v := range extra[0] {
			resp[k] = v
		}
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func fail500(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func getAuth(c *fiber.Ctx) (uuid.UUID, error) {
	rawID, ok := c.Locals("userId").(string)
	if !ok || rawID == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	uID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user id")
	}
	return uID, nil
}

func mustJSON(v interface{}) datatypes.JSON {
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}

func (h *ProviderOnboardingHandler) findOrCreateProfile(tx *gorm.DB, userID uuid.UUID) (*models.ProviderProfile, error) {
	var p models.ProviderProfile
	err := tx.Where("user_id = ?", userID).First(&p).Error

	if err == nil {
		return &p, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p = models.ProviderProfile{
		UserID:            userID,
		Status:            models.ProfilePending,
		MinSessionMinutes: 30,
	}

	if err := tx.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// saveProfile persists one section. Each section writes only its own
// columns, so concurrent saves of different sections cannot clobber each
// other's fields.
func (h *ProviderOnboardingHandler) saveProfile(c *fiber.Ctx, userID uuid.UUID, updates map[string]interface{}) error {
	tx := h.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	p, err := h.findOrCreateProfile(tx, userID)
	if err != nil {
		tx.Rollback()
		return fail500(c, "Failed to load profile")
	}

	updates["updated_at"] = time.Now()
	if err := tx.Model(&models.ProviderProfile{}).
		Where("id = ?", p.ID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return fail500(c, "Failed to save profile: "+err.Error())
	}

	if err := tx.Commit().Error; err != nil {
		return fail500(c, "Failed to save profile")
	}

	var saved models.ProviderProfile
	if err := h.DB.First(&saved, "id = ?", p.ID).Error; err != nil {
		return fail500(c, "Failed to load profile")
	}

	return c.JSON(fiber.Map{"success": true, "data": saved})
}

// ========= Handlers =========

func (h *ProviderOnboardingHandler) Get(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	p, err := h.findOrCreateProfile(h.DB, userID)
	if err != nil {
		return fail500(c, "Failed to load profile")
	}

	return c.JSON(fiber.Map{"success": true, "data": p})
}

// Section 1: basic info
type saveBasicReq struct {
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Timezone    string `json:"timezone"`
	Bio         string `json:"bio"`
}

func (h *ProviderOnboardingHandler) SaveBasic(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req saveBasicReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}

	name := strings.TrimSpace(req.DisplayName)
	country := strings.TrimSpace(req.Country)
	city := strings.TrimSpace(req.City)

	if name == "" || country == "" || city == "" {
		return fail200(c, "display_name, country and city are required")
	}

	return h.saveProfile(c, userID, map[string]interface{}{
		"display_name": name,
		"country":      country,
		"city":         city,
		"timezone":     strings.TrimSpace(req.Timezone),
		"bio":          strings.TrimSpace(req.Bio),
	})
}

// Section 2: languages
type saveLanguagesReq struct {
	Languages []models.LanguageEntry `json:"languages"`
}

func (h *ProviderOnboardingHandler) SaveLanguages(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req saveLanguagesReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}

	// drop blank rows, validate the rest
	entries := make([]models.LanguageEntry, 0, len(req.Languages))
	for _, l := range req.Languages {
		lang := strings.TrimSpace(l.Language)
		if lang == "" {
			continue
		}
		if !l.Level.Valid() {
			return fail200(c, "language level must be basic, fluent or native")
		}
		entries = append(entries, models.LanguageEntry{Language: lang, Level: l.Level})
	}

	return h.saveProfile(c, userID, map[string]interface{}{
		"languages": mustJSON(entries),
	})
}

// Section 3: skills
type saveSkillsReq struct {
	Skills []string `json:"skills"`
	CanDo  string   `json:"can_do"`
}

func (h *ProviderOnboardingHandler) SaveSkills(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req saveSkillsReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}

	seen := map[string]bool{}
	skills := make([]string, 0, len(req.Skills))
	for _, s := range req.Skills {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		skills = append(skills, s)
	}

	return h.saveProfile(c, userID, map[string]interface{}{
		"skills": mustJSON(skills),
		"can_do": strings.TrimSpace(req.CanDo),
	})
}

// Section 4: equipment
type saveEquipmentReq struct {
	DeviceModel   string `json:"device_model"`
	CameraQuality string `json:"camera_quality"`
	NetworkType   string `json:"network_type"`
}

func (h *ProviderOnboardingHandler) SaveEquipment(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req saveEquipmentReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}

	camera := models.CameraQuality(strings.TrimSpace(req.CameraQuality))
	network := models.NetworkType(strings.TrimSpace(req.NetworkType))

	if camera != "" && !camera.Valid() {
		return fail200(c, "camera_quality must be 720p, 1080p or 4k")
	}
	if network != "" && !network.Valid() {
		return fail200(c, "network_type must be 5g, wifi or mixed")
	}

	return h.saveProfile(c, userID, map[string]interface{}{
		"device_model":   strings.TrimSpace(req.DeviceModel),
		"camera_quality": camera,
		"network_type":   network,
	})
}

// Section 5: pricing & availability
type savePricingReq struct {
	RateHourlyUSD     *float64 `json:"rate_hourly_usd"`
	MinSessionMinutes int      `json:"min_session_minutes"`
	AvailabilityNotes string   `json:"availability_notes"`
}

func (h *ProviderOnboardingHandler) SavePricing(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	var req savePricingReq
	if err := c.BodyParser(&req); err != nil {
		return fail200(c, "invalid body")
	}

	if req.RateHourlyUSD != nil && *req.RateHourlyUSD < 0 {
		return fail200(c, "rate_hourly_usd cannot be negative")
	}
	if req.MinSessionMinutes <= 0 {
		return fail200(c, "min_session_minutes must be positive")
	}

	return h.saveProfile(c, userID, map[string]interface{}{
		"rate_hourly_usd":     req.RateHourlyUSD,
		"min_session_minutes": req.MinSessionMinutes,
		"availability":        mustJSON(fiber.Map{"notes": strings.TrimSpace(req.AvailabilityNotes)}),
	})
}

// Activate marks the profile active and promotes the user to provider.
// Blocked while the required basic-info fields are still blank.
func (h *ProviderOnboardingHandler) Activate(c *fiber.Ctx) error {
	userID, err := getAuth(c)
	if err != nil {
		return err
	}

	tx := h.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	p, err := h.findOrCreateProfile(tx, userID)
	if err != nil {
		tx.Rollback()
		return fail500(c, "Failed to load profile")
	}

	if missing := p.MissingBasicFields(); len(missing) > 0 {
		tx.Rollback()
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success": false,
			"message": "Profile is incomplete",
			"missing": missing,
		})
	}

	now := time.Now()

	if err := tx.Model(&models.ProviderProfile{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"status":     models.ProfileActive,
			"updated_at": now,
		}).Error; err != nil {
		tx.Rollback()
		return fail500(c, "Failed to activate profile")
	}
	p.Status = models.ProfileActive
	p.UpdatedAt = now

	var u models.User
	if err := tx.First(&u, "id = ?", userID).Error; err != nil {
		tx.Rollback()
		return fail500(c, "Failed to load user")
	}

	if u.Role == models.RoleCustomer {
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"role":       models.RoleProvider,
				"updated_at": now,
			}).Error; err != nil {
			tx.Rollback()
			return fail500(c, "Failed to update user role")
		}
		u.Role = models.RoleProvider
	}

	if err := tx.Commit().Error; err != nil {
		return fail500(c, "Failed to commit")
	}

	// reissue the cookie so the provider role takes effect immediately
	signed, err := utils.SignSession(h.JWTSecret, u.ID.String(), string(u.Role), h.ExpiresMin)
	if err != nil {
		// role flip already committed; the next login gets the right token
		return fail500(c, "Failed to issue new token")
	}

	setSessionCookie(c, signed, h.ExpiresMin)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile activated, you can now accept requests",
		"data": fiber.Map{
			"profile": p,
			"user":    u,
		},
	})
}
