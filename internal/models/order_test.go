package models_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taplive-app/taplive_be/internal/models"
)

func TestOrderStatus_Valid(t *testing.T) {
	t.Run("should accept the five lifecycle statuses", func(t *testing.T) {
		valid := []models.OrderStatus{
			models.OrderStatusOpen,
			models.OrderStatusAccepted,
			models.OrderStatusLive,
			models.OrderStatusCompleted,
			models.OrderStatusCancelled,
		}
		for _, s := range valid {
			t.Run(fmt.Sprintf("status %s", s), func(t *testing.T) {
				require.True(t, s.Valid())
			})
		}
	})

	t.Run("should reject anything else", func(t *testing.T) {
		for _, s := range []models.OrderStatus{"", "OPEN", "pending", "done"} {
			assert.False(t, s.Valid(), "status %q should be invalid", s)
		}
	})
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, models.OrderStatusCompleted.Terminal())
	assert.True(t, models.OrderStatusCancelled.Terminal())

	assert.False(t, models.OrderStatusOpen.Terminal())
	assert.False(t, models.OrderStatusAccepted.Terminal())
	assert.False(t, models.OrderStatusLive.Terminal())
}

func TestOrderStatus_Meta(t *testing.T) {
	t.Run("every valid status has display metadata", func(t *testing.T) {
		statuses := []models.OrderStatus{
			models.OrderStatusOpen,
			models.OrderStatusAccepted,
			models.OrderStatusLive,
			models.OrderStatusCompleted,
			models.OrderStatusCancelled,
		}
		for _, s := range statuses {
			m := s.Meta()
			assert.NotEmpty(t, m.Label, "label for %s", s)
			assert.NotEmpty(t, m.Badge, "badge for %s", s)
		}
	})

	t.Run("specific labels", func(t *testing.T) {
		assert.Equal(t, "Open", models.OrderStatusOpen.Meta().Label)
		assert.Equal(t, "Live", models.OrderStatusLive.Meta().Label)
		assert.Equal(t, "red", models.OrderStatusLive.Meta().Badge)
	})

	t.Run("unknown status falls back to a gray badge", func(t *testing.T) {
		m := models.OrderStatus("weird").Meta()
		assert.Equal(t, "weird", m.Label)
		assert.Equal(t, "gray", m.Badge)
	})
}

func TestOrderCategory_Valid(t *testing.T) {
	for _, c := range []models.OrderCategory{
		models.CategoryExplore,
		models.CategoryVerify,
		models.CategoryAssistance,
		models.CategoryOther,
	} {
		assert.True(t, c.Valid(), "category %q", c)
	}

	for _, c := range []models.OrderCategory{"", "shopping", "Explore"} {
		assert.False(t, c.Valid(), "category %q", c)
	}
}
