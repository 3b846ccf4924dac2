// internal/models/provider_profile.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProfileStatus string

const (
	ProfilePending ProfileStatus = "pending" // onboarding not finished
	ProfileActive  ProfileStatus = "active"  // eligible to work
)

type LanguageLevel string

const (
	LevelBasic  LanguageLevel = "basic"
	LevelFluent LanguageLevel = "fluent"
	LevelNative LanguageLevel = "native"
)

func (l LanguageLevel) Valid() bool {
	return l == LevelBasic || l == LevelFluent || l == LevelNative
}

// LanguageEntry is one (language, proficiency) pair in the Languages JSON column.
type LanguageEntry struct {
	Language string        `json:"language"`
	Level    LanguageLevel `json:"level"`
}

type CameraQuality string

const (
	Camera720p  CameraQuality = "720p"
	Camera1080p CameraQuality = "1080p"
	Camera4K    CameraQuality = "4k"
)

func (q CameraQuality) Valid() bool {
	return q == Camera720p || q == Camera1080p || q == Camera4K
}

type NetworkType string

const (
	Network5G    NetworkType = "5g"
	NetworkWifi  NetworkType = "wifi"
	NetworkMixed NetworkType = "mixed"
)

func (n NetworkType) Valid() bool {
	return n == Network5G || n == NetworkWifi || n == NetworkMixed
}

type ProviderProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	// Section 1 - basic info
	DisplayName string `gorm:"type:varchar(120)" json:"display_name"`
	Country     string `gorm:"type:varchar(80)" json:"country"`
	City        string `gorm:"type:varchar(120)" json:"city"`
	Timezone    string `gorm:"type:varchar(60)" json:"timezone"`
	Bio         string `gorm:"type:text" json:"bio"`

	// Section 2 - languages: [{"language": "...", "level": "basic|fluent|native"}]
	Languages datatypes.JSON `json:"languages"`

	// Section 3 - skills
	Skills datatypes.JSON `json:"skills"` // ["photography", "driving", ...]
	CanDo  string         `gorm:"type:text" json:"can_do"`

	// Section 4 - equipment
	DeviceModel   string        `gorm:"type:varchar(120)" json:"device_model"`
	CameraQuality CameraQuality `gorm:"type:varchar(10)" json:"camera_quality"`
	NetworkType   NetworkType   `gorm:"type:varchar(10)" json:"network_type"`

	// Section 5 - pricing & availability
	RateHourlyUSD     *float64       `json:"rate_hourly_usd"`
	MinSessionMinutes int            `gorm:"default:30" json:"min_session_minutes"`
	Availability      datatypes.JSON `json:"availability"` // {"notes": "..."}

	Status ProfileStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MissingBasicFields returns the required section-1 fields that are still
// blank. Activation is blocked while this is non-empty.
func (p *ProviderProfile) MissingBasicFields() []string {
	missing := []string{}
	if strings.TrimSpace(p.DisplayName) == "" {
		missing = append(missing, "display_name")
	}
	if strings.TrimSpace(p.Country) == "" {
		missing = append(missing, "country")
	}
	if strings.TrimSpace(p.City) == "" {
		missing = append(missing, "city")
	}
	return missing
}

func (p *ProviderProfile) IsActive() bool {
	return p.Status == ProfileActive
}
