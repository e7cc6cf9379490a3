package provider_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/provider"
)

func TestToOffer_StampsBookkeepingFields(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	q := provider.Quote{
		Mode:         models.ModeFlight,
		PriceTotal:   120,
		Currency:     "USD",
		DepartureUTC: now.Add(time.Hour),
		ArrivalUTC:   now.Add(2 * time.Hour),
		ProviderRef:  "ABC123",
	}

	offer := provider.ToOffer(42, "tequila", q, now)

	assert.Equal(t, int64(42), offer.EdgeID)
	assert.Equal(t, models.SourceAPILive, offer.SourceType)
	assert.Equal(t, "tequila", offer.Provider)
	assert.False(t, offer.IsStatic)
	assert.True(t, offer.Active)
	assert.Equal(t, now, offer.RetrievedAt)
	assert.InDelta(t, 6, offer.TTLHours, 0.001)
}
