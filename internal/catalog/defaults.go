package catalog

import "github.com/mistwood/cultivation-api/internal/entities"

// Default builds the catalog with the standard game data
func Default() *Catalog {
	return New(Data{
		Realms:        defaultRealms(),
		Beasts:        defaultBeasts(),
		SecretRealms:  defaultSecretRealms(),
		Techniques:    defaultTechniques(),
		Locations:     defaultLocations(),
		Foods:         defaultFoods(),
		Compatibility: defaultCompatibility(),
		Expeditions:   defaultExpeditions(),
	})
}

func defaultRealms() []Realm {
	return []Realm{
		{
			ID:          "realm_001",
			Name:        "Qi Refining",
			Level:       1,
			Description: "The beginning of the path, sensing the spiritual energy of heaven and earth",
			Requirements: RealmRequirements{
				PlayerLevel: 1, Spirit: 10, Intelligence: 10,
			},
			Multipliers: RealmMultipliers{
				Spirit: 1.0, Strength: 1.0, Agility: 1.0, Intelligence: 1.0,
			},
			CultivationSpeed: 1.0,
			NextRealmID:      "realm_002",
		},
		{
			ID:          "realm_002",
			Name:        "Foundation Establishment",
			Level:       2,
			Description: "A foundation of spiritual power takes shape, qi begins to circulate",
			Requirements: RealmRequirements{
				PlayerLevel: 10, Spirit: 100, Intelligence: 50,
			},
			Multipliers: RealmMultipliers{
				Spirit: 1.2, Strength: 1.1, Agility: 1.1, Intelligence: 1.1,
			},
			CultivationSpeed: 1.2,
			NextRealmID:      "realm_003",
		},
		{
			ID:          "realm_003",
			Name:        "Golden Core",
			Level:       3,
			Description: "A golden core condenses within, spiritual power surges",
			Requirements: RealmRequirements{
				PlayerLevel: 20, Spirit: 200, Intelligence: 100,
			},
			Multipliers: RealmMultipliers{
				Spirit: 1.5, Strength: 1.3, Agility: 1.3, Intelligence: 1.3,
			},
			CultivationSpeed: 1.5,
			NextRealmID:      "realm_004",
		},
		{
			ID:          "realm_004",
			Name:        "Nascent Soul",
			Level:       4,
			Description: "The nascent soul can briefly leave the body",
			Requirements: RealmRequirements{
				PlayerLevel: 30, Spirit: 500, Intelligence: 250,
			},
			Multipliers: RealmMultipliers{
				Spirit: 2.0, Strength: 1.5, Agility: 1.5, Intelligence: 1.5,
			},
			CultivationSpeed: 2.0,
			NextRealmID:      "realm_005",
		},
		{
			ID:          "realm_005",
			Name:        "Spirit Transformation",
			Level:       5,
			Description: "The soul transforms into divine sense, lifespan greatly extended",
			Requirements: RealmRequirements{
				PlayerLevel: 40, Spirit: 1000, Intelligence: 500,
			},
			Multipliers: RealmMultipliers{
				Spirit: 3.0, Strength: 2.0, Agility: 2.0, Intelligence: 2.0,
			},
			CultivationSpeed: 3.0,
		},
	}
}

func defaultTechniques() map[string]float64 {
	return map[string]float64{
		"technique_basic":    1.0,
		"technique_azure":    1.2,
		"technique_starfall": 1.5,
	}
}

func defaultLocations() map[string]float64 {
	return map[string]float64{
		"spirit_cave":    1.3,
		"sect_grounds":   1.1,
		"ley_line_nexus": 1.5,
	}
}

func defaultFoods() map[string]FoodEffect {
	return map[string]FoodEffect{
		"food_basic":     {Loyalty: 3, Experience: 5},
		"food_premium":   {Loyalty: 10, Experience: 15},
		"food_fire":      {Loyalty: 7, Experience: 10, ForType: TypeFire},
		"food_water":     {Loyalty: 7, Experience: 10, ForType: TypeWater},
		"food_lightning": {Loyalty: 7, Experience: 10, ForType: TypeLightning},
	}
}

// defaultCompatibility is a one-directional adjacency looked up from the
// first beast of the pair.
func defaultCompatibility() map[string][]string {
	return map[string][]string{
		TypeFire:      {TypeWood, TypeWind},
		TypeWater:     {TypeFire, TypeLightning},
		TypeWood:      {TypeEarth, TypeWater},
		TypeEarth:     {TypeLightning, TypeMetal},
		TypeMetal:     {TypeWood, TypeFire},
		TypeWind:      {TypeLightning, TypeWater},
		TypeLightning: {TypeWind, TypeFire},
		TypeLight:     {TypeDark},
		TypeDark:      {TypeLight},
		TypeDivine:    {TypeDivine, TypeLight, TypeDark},
	}
}

func defaultExpeditions() map[string]ExpeditionBase {
	return map[string]ExpeditionBase{
		"resource": {
			Gold: 50, SpiritStones: 10,
		},
		"experience": {
			Experience: 100, BeastExperience: 50,
		},
		"treasure": {
			Gold: 100, SpiritStones: 30,
			ItemDropChance: 0.30,
			Items:          []string{"mystery_chest", "ancient_relic_shard"},
		},
		"special": {
			Gold: 30, SpiritStones: 20, Experience: 50, BeastExperience: 80,
			ItemDropChance: 0.15,
			Items:          []string{"phoenix_feather", "dragon_scale"},
		},
	}
}

func defaultBeasts() []BeastTemplate {
	return []BeastTemplate{
		{
			ID:            "beast_001",
			Name:          "Flame Fox",
			Description:   "A fox wreathed in spirit fire, quick and cunning",
			Type:          TypeFire,
			Rarity:        RarityCommon,
			RealmRequired: 1,
			BaseAttributes: entities.BeastAttributes{
				Attack: 12, Defense: 8, Speed: 15, Health: 90, Mana: 60,
			},
			Skills: []SkillDef{
				{Name: "Ember Bite", Damage: 15, Cooldown: 1, UnlockLevel: 1, ManaCost: 10},
				{Name: "Flame Dash", Damage: 25, Cooldown: 3, UnlockLevel: 5, ManaCost: 20},
			},
			EvolutionPaths: []EvolutionStage{
				{
					Stage: 1, Name: "Blaze Fox", RequiredLevel: 10,
					StatBoosts: entities.BeastAttributes{Attack: 10, Defense: 5, Speed: 8, Health: 50, Mana: 30},
					NewSkills:  []string{"Inferno Tail"},
				},
				{
					Stage: 2, Name: "Nine-Tailed Flame Fox", RequiredLevel: 25,
					StatBoosts: entities.BeastAttributes{Attack: 25, Defense: 15, Speed: 20, Health: 120, Mana: 80},
					NewSkills:  []string{"Nine Flame Burst"},
				},
			},
			CaptureRate: 0.3,
			Habitat:     "forest",
		},
		{
			ID:            "beast_002",
			Name:          "Azure Serpent",
			Description:   "A river serpent whose scales glint like deep water",
			Type:          TypeWater,
			Rarity:        RarityRare,
			RealmRequired: 1,
			BaseAttributes: entities.BeastAttributes{
				Attack: 10, Defense: 14, Speed: 10, Health: 120, Mana: 80,
			},
			Skills: []SkillDef{
				{Name: "Water Lash", Damage: 12, Cooldown: 1, UnlockLevel: 1, ManaCost: 8},
				{Name: "Tide Coil", Damage: 20, Cooldown: 2, UnlockLevel: 4, ManaCost: 18},
			},
			EvolutionPaths: []EvolutionStage{
				{
					Stage: 1, Name: "River Dragon", RequiredLevel: 15,
					StatBoosts: entities.BeastAttributes{Attack: 15, Defense: 20, Speed: 10, Health: 100, Mana: 60},
					NewSkills:  []string{"Deluge"},
				},
			},
			CaptureRate: 0.2,
			Habitat:     "waters",
		},
		{
			ID:            "beast_003",
			Name:          "Thunder Hawk",
			Description:   "A hawk that rides storm fronts, crackling with lightning",
			Type:          TypeLightning,
			Rarity:        RarityPrecious,
			RealmRequired: 2,
			BaseAttributes: entities.BeastAttributes{
				Attack: 18, Defense: 10, Speed: 22, Health: 80, Mana: 70,
			},
			Skills: []SkillDef{
				{Name: "Static Talon", Damage: 18, Cooldown: 1, UnlockLevel: 1, ManaCost: 12},
				{Name: "Storm Dive", Damage: 35, Cooldown: 4, UnlockLevel: 8, ManaCost: 30},
			},
			EvolutionPaths: []EvolutionStage{
				{
					Stage: 1, Name: "Storm Roc", RequiredLevel: 20,
					StatBoosts: entities.BeastAttributes{Attack: 22, Defense: 12, Speed: 25, Health: 90, Mana: 70},
					NewSkills:  []string{"Thunderclap"},
				},
			},
			CaptureRate: 0.15,
			Habitat:     "sky",
		},
	}
}

func defaultSecretRealms() []SecretRealm {
	return []SecretRealm{
		{
			ID:             "srealm_001",
			Name:           "Flame Trial Grounds",
			Description:    "An ancient proving ground where spirit fire never dies",
			Type:           TypeFire,
			MinPlayerLevel: 5,
			MinBeastLevel:  1,
			MaxBeastCount:  3,
			EnergyCost:     10,
			CooldownHours:  12,
			Levels: []RealmLevel{
				{
					ID: "srealm_001_l1", Name: "Outer Furnace", Order: 1, RequirementLevel: 5,
					Challenges: []Challenge{
						{
							ID: "srealm_001_l1_c1", Name: "Cinder Sentinels", Type: "combat",
							Difficulty: 2, RequirementLevel: 5,
							RecommendedAttributes: map[string]int{"attack": 30, "speed": 25},
							OptimalBeastTypes:     []string{TypeWater, TypeEarth},
							Rewards: []RewardEntry{
								{Type: "currency", Name: "gold", Quantity: 80, Chance: 1.0},
								{Type: "currency", Name: "spirit_stones", Quantity: 20, Chance: 0.6},
								{Type: "special", Name: "ember_core", Quantity: 1, Chance: 0.2},
							},
						},
					},
				},
				{
					ID: "srealm_001_l2", Name: "Heart of the Forge", Order: 2, RequirementLevel: 10,
					IsBossLevel: true,
					Challenges: []Challenge{
						{
							ID: "srealm_001_l2_c1", Name: "Molten Guardian", Type: "boss",
							Difficulty: 4, RequirementLevel: 10,
							RecommendedAttributes: map[string]int{"attack": 60, "defense": 50, "health": 400},
							OptimalBeastTypes:     []string{TypeWater},
							Rewards: []RewardEntry{
								{Type: "currency", Name: "gold", Quantity: 200, Chance: 1.0},
								{Type: "currency", Name: "spirit_stones", Quantity: 60, Chance: 0.8},
								{Type: "special", Name: "guardian_flame_sigil", Quantity: 1, Chance: 0.1},
							},
						},
					},
				},
			},
			TotalReward: AggregateReward{
				Gold: 500, SpiritStones: 150, Experience: 300,
				Items: []string{"flame_trial_crown"},
			},
		},
		{
			ID:             "srealm_002",
			Name:           "Abyssal Sea Palace",
			Description:    "A sunken palace at the bottom of a lightless sea",
			Type:           TypeWater,
			MinPlayerLevel: 12,
			MinBeastLevel:  8,
			MaxBeastCount:  3,
			EnergyCost:     20,
			CooldownHours:  24,
			Levels: []RealmLevel{
				{
					ID: "srealm_002_l1", Name: "Drowned Gate", Order: 1, RequirementLevel: 12,
					Challenges: []Challenge{
						{
							ID: "srealm_002_l1_c1", Name: "Tide Wraiths", Type: "combat",
							Difficulty: 3, RequirementLevel: 12,
							RecommendedAttributes: map[string]int{"defense": 60, "mana": 150},
							OptimalBeastTypes:     []string{TypeLightning, TypeWood},
							Rewards: []RewardEntry{
								{Type: "currency", Name: "gold", Quantity: 150, Chance: 1.0},
								{Type: "currency", Name: "spirit_stones", Quantity: 40, Chance: 0.7},
							},
						},
					},
				},
				{
					ID: "srealm_002_l2", Name: "Throne of the Deep", Order: 2, RequirementLevel: 18,
					IsBossLevel: true,
					Challenges: []Challenge{
						{
							ID: "srealm_002_l2_c1", Name: "Abyssal Leviathan", Type: "boss",
							Difficulty: 6, RequirementLevel: 18,
							RecommendedAttributes: map[string]int{"attack": 120, "defense": 100, "health": 800},
							OptimalBeastTypes:     []string{TypeLightning},
							Rewards: []RewardEntry{
								{Type: "currency", Name: "gold", Quantity: 400, Chance: 1.0},
								{Type: "currency", Name: "spirit_stones", Quantity: 120, Chance: 0.9},
								{Type: "special", Name: "leviathan_pearl", Quantity: 1, Chance: 0.05},
							},
						},
					},
				},
			},
			TotalReward: AggregateReward{
				Gold: 1200, SpiritStones: 400, Experience: 800,
				Items: []string{"abyssal_crown"},
			},
		},
	}
}
