package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedthameursassi/intermodal/internal/models"
)

func TestCheckAreaForest_AcceptsValidChain(t *testing.T) {
	areas := []models.Area{
		{ID: "country", RadiusKm: 1000},
		{ID: "metro", ParentID: "country", RadiusKm: 100},
		{ID: "neighborhood", ParentID: "metro", RadiusKm: 10},
	}
	assert.NoError(t, models.CheckAreaForest(areas))
}

func TestCheckAreaForest_AcceptsParentOutsideLoadedSet(t *testing.T) {
	areas := []models.Area{
		{ID: "metro", ParentID: "country-not-loaded", RadiusKm: 100},
	}
	assert.NoError(t, models.CheckAreaForest(areas))
}

func TestCheckAreaForest_RejectsDirectCycle(t *testing.T) {
	areas := []models.Area{
		{ID: "a", ParentID: "b", RadiusKm: 10},
		{ID: "b", ParentID: "a", RadiusKm: 10},
	}
	err := models.CheckAreaForest(areas)
	require.Error(t, err)

	var persistErr *models.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, models.PersistenceCorrupted, persistErr.Kind)
}

func TestCheckAreaForest_RejectsSelfCycle(t *testing.T) {
	areas := []models.Area{
		{ID: "a", ParentID: "a", RadiusKm: 10},
	}
	assert.Error(t, models.CheckAreaForest(areas))
}

func TestCheckAreaForest_RejectsLongerCycle(t *testing.T) {
	areas := []models.Area{
		{ID: "a", ParentID: "b", RadiusKm: 10},
		{ID: "b", ParentID: "c", RadiusKm: 10},
		{ID: "c", ParentID: "a", RadiusKm: 10},
	}
	assert.Error(t, models.CheckAreaForest(areas))
}
