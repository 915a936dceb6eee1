package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mistwood/cultivation-api/internal/catalog"
)

func TestRealmLadder(t *testing.T) {
	c := catalog.Default()

	realms := c.Realms()
	require.NotEmpty(t, realms)
	for i, r := range realms {
		assert.Equal(t, i+1, r.Level, "ladder is ordered and contiguous")
	}
	assert.Equal(t, "realm_001", realms[0].ID)

	first := c.Realm("realm_001")
	require.NotNil(t, first)
	assert.Equal(t, "realm_002", first.NextRealmID)
	assert.Nil(t, c.Realm("realm_404"))
}

func TestCultivationBonuses(t *testing.T) {
	c := catalog.Default()

	assert.InDelta(t, 1.2, c.TechniqueBonus("technique_azure"), 0.0001)
	assert.InDelta(t, 1.0, c.TechniqueBonus("technique_unknown"), 0.0001)
	assert.InDelta(t, 1.3, c.LocationBonus("spirit_cave"), 0.0001)
	assert.InDelta(t, 1.0, c.LocationBonus("back alley"), 0.0001)
}

func TestFoodTable(t *testing.T) {
	c := catalog.Default()

	basic, ok := c.Food("food_basic")
	require.True(t, ok)
	assert.Equal(t, 3, basic.Loyalty)
	assert.Equal(t, 5, basic.Experience)
	assert.Empty(t, basic.ForType)

	fire, ok := c.Food("food_fire")
	require.True(t, ok)
	assert.Equal(t, catalog.TypeFire, fire.ForType)

	_, ok = c.Food("food_imaginary")
	assert.False(t, ok)
}

func TestCompatibilityIsDirectional(t *testing.T) {
	c := catalog.Default()

	assert.True(t, c.Compatible(catalog.TypeWater, catalog.TypeFire))
	assert.False(t, c.Compatible(catalog.TypeFire, catalog.TypeWater))
	assert.True(t, c.Compatible(catalog.TypeDivine, catalog.TypeDivine))
	assert.False(t, c.Compatible(catalog.TypeFire, "unknown"))
}

func TestRarityOrdering(t *testing.T) {
	c := catalog.Default()

	assert.True(t, c.RarityAtLeast(catalog.RarityLegendary, catalog.RarityPrecious))
	assert.True(t, c.RarityAtLeast(catalog.RarityPrecious, catalog.RarityPrecious))
	assert.False(t, c.RarityAtLeast(catalog.RarityRare, catalog.RarityPrecious))
	assert.False(t, c.RarityAtLeast("unheard-of", catalog.RarityCommon))
	assert.Equal(t, -1, c.RarityRank("unheard-of"))
}

func TestExpeditionBases(t *testing.T) {
	c := catalog.Default()

	treasure, ok := c.Expedition("treasure")
	require.True(t, ok)
	assert.InDelta(t, 0.30, treasure.ItemDropChance, 0.0001)
	assert.NotEmpty(t, treasure.Items)

	_, ok = c.Expedition("raiding")
	assert.False(t, ok)
}

func TestSecretRealmDefinitions(t *testing.T) {
	c := catalog.Default()

	realms := c.SecretRealms()
	require.Len(t, realms, 2)
	assert.Equal(t, "srealm_001", realms[0].ID)

	flame := c.SecretRealm("srealm_001")
	require.NotNil(t, flame)
	require.Len(t, flame.Levels, 2)
	assert.True(t, flame.Levels[1].IsBossLevel)
	assert.Equal(t, 500, flame.TotalReward.Gold)
}

func TestBeastTemplates(t *testing.T) {
	c := catalog.Default()

	fox := c.Beast("beast_001")
	require.NotNil(t, fox)
	assert.Equal(t, catalog.TypeFire, fox.Type)
	require.NotEmpty(t, fox.EvolutionPaths)
	assert.Equal(t, 10, fox.EvolutionPaths[0].RequiredLevel)

	assert.Len(t, c.Beasts(), 3)
}
