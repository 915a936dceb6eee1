package catalog

import "sort"

// Catalog is the assembled set of immutable game data tables
type Catalog struct {
	realms        map[string]*Realm
	beasts        map[string]*BeastTemplate
	secretRealms  map[string]*SecretRealm
	techniques    map[string]float64
	locations     map[string]float64
	foods         map[string]FoodEffect
	compatibility map[string][]string
	expeditions   map[string]ExpeditionBase
	rarityRank    map[string]int
}

// Data is the raw material a Catalog is built from
type Data struct {
	Realms       []Realm
	Beasts       []BeastTemplate
	SecretRealms []SecretRealm
	Techniques   map[string]float64
	Locations    map[string]float64
	Foods        map[string]FoodEffect
	// Compatibility maps a beast type to the partner types it can pair with
	Compatibility map[string][]string
	Expeditions   map[string]ExpeditionBase
}

// New assembles a Catalog from the given data
func New(data Data) *Catalog {
	c := &Catalog{
		realms:        make(map[string]*Realm, len(data.Realms)),
		beasts:        make(map[string]*BeastTemplate, len(data.Beasts)),
		secretRealms:  make(map[string]*SecretRealm, len(data.SecretRealms)),
		techniques:    data.Techniques,
		locations:     data.Locations,
		foods:         data.Foods,
		compatibility: data.Compatibility,
		expeditions:   data.Expeditions,
		rarityRank: map[string]int{
			RarityCommon:    0,
			RarityRare:      1,
			RarityPrecious:  2,
			RarityLegendary: 3,
			RarityMythic:    4,
		},
	}
	for i := range data.Realms {
		r := data.Realms[i]
		c.realms[r.ID] = &r
	}
	for i := range data.Beasts {
		b := data.Beasts[i]
		c.beasts[b.ID] = &b
	}
	for i := range data.SecretRealms {
		sr := data.SecretRealms[i]
		c.secretRealms[sr.ID] = &sr
	}
	return c
}

// Realm returns the realm with the given ID, or nil
func (c *Catalog) Realm(id string) *Realm {
	return c.realms[id]
}

// Realms returns all realms ordered by ladder level
func (c *Catalog) Realms() []*Realm {
	out := make([]*Realm, 0, len(c.realms))
	for _, r := range c.realms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}

// Beast returns the template with the given ID, or nil
func (c *Catalog) Beast(id string) *BeastTemplate {
	return c.beasts[id]
}

// Beasts returns all beast templates ordered by ID
func (c *Catalog) Beasts() []*BeastTemplate {
	out := make([]*BeastTemplate, 0, len(c.beasts))
	for _, b := range c.beasts {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SecretRealm returns the secret realm with the given ID, or nil
func (c *Catalog) SecretRealm(id string) *SecretRealm {
	return c.secretRealms[id]
}

// SecretRealms returns all secret realms ordered by ID
func (c *Catalog) SecretRealms() []*SecretRealm {
	out := make([]*SecretRealm, 0, len(c.secretRealms))
	for _, sr := range c.secretRealms {
		out = append(out, sr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TechniqueBonus returns the cultivation multiplier for a technique,
// defaulting to 1.0 when unknown
func (c *Catalog) TechniqueBonus(id string) float64 {
	if b, ok := c.techniques[id]; ok {
		return b
	}
	return 1.0
}

// LocationBonus returns the cultivation multiplier for a location,
// defaulting to 1.0 when unknown
func (c *Catalog) LocationBonus(name string) float64 {
	if b, ok := c.locations[name]; ok {
		return b
	}
	return 1.0
}

// Food returns the effect of a food item
func (c *Catalog) Food(id string) (FoodEffect, bool) {
	f, ok := c.foods[id]
	return f, ok
}

// Compatible reports whether a beast of type a can pair with type b
func (c *Catalog) Compatible(a, b string) bool {
	for _, t := range c.compatibility[a] {
		if t == b {
			return true
		}
	}
	return false
}

// Expedition returns the base reward table for an expedition type
func (c *Catalog) Expedition(expType string) (ExpeditionBase, bool) {
	e, ok := c.expeditions[expType]
	return e, ok
}

// RarityRank returns the ordinal of a rarity, -1 when unknown
func (c *Catalog) RarityRank(rarity string) int {
	if r, ok := c.rarityRank[rarity]; ok {
		return r
	}
	return -1
}

// RarityAtLeast reports whether rarity is at or above the floor
func (c *Catalog) RarityAtLeast(rarity, floor string) bool {
	r, f := c.RarityRank(rarity), c.RarityRank(floor)
	return r >= 0 && f >= 0 && r >= f
}
