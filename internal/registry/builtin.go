package registry

import (
	"fmt"

	"github.com/sethtw/saga-sub000/internal/schema"
)

// RegisterBuiltins installs the built-in object types and verifies that each
// type's default data satisfies its own schema. A violation here is a
// programming error and fails startup.
func RegisterBuiltins(r *Registry) error {
	for _, def := range builtinDefinitions() {
		if err := r.Register(def); err != nil {
			return err
		}
		if _, err := def.Schema.Validate(def.DefaultData); err != nil {
			return fmt.Errorf("default data for type %q fails its own schema: %w", def.Name, err)
		}
	}
	r.MarkInitialized()
	return nil
}

func builtinDefinitions() []TypeDefinition {
	return []TypeDefinition{
		{
			Name:        "character",
			DisplayName: "Character",
			Plural:      "Characters",
			Icon:        "user",
			Category:    CategoryCharacter,

			Template:      "character",
			ContextPolicy: PolicyHierarchical,
			Schema: schema.Schema{Fields: []schema.Field{
				{Key: "name", Kind: schema.KindString, Required: true, MinLen: 2, MaxLen: 80},
				{Key: "description", Kind: schema.KindText, Required: true, MinLen: 10},
				{Key: "race", Kind: schema.KindString},
				{Key: "class", Kind: schema.KindString},
				{Key: "level", Kind: schema.KindInteger, Min: schema.Float(1), Max: schema.Float(20)},
				{Key: "personality", Kind: schema.KindText},
				{Key: "background", Kind: schema.KindText},
				{Key: "stats", Kind: schema.KindObject},
			}},

			DisplayFields: []DisplayField{
				{Key: "name", Label: "Name", Type: "text", Priority: 1},
				{Key: "race", Label: "Race", Type: "badge", Priority: 2},
				{Key: "class", Label: "Class", Type: "badge", Priority: 3},
				{Key: "level", Label: "Level", Type: "stat", Priority: 4},
				{Key: "description", Label: "Description", Type: "text", Priority: 5},
				{Key: "background", Label: "Background", Type: "text", Priority: 6, VisibleIf: "background"},
			},
			EditableFields: []EditableField{
				{Key: "name", Label: "Name", Type: "text", Required: true},
				{Key: "description", Label: "Description", Type: "textarea", Required: true},
				{Key: "race", Label: "Race", Type: "text"},
				{Key: "class", Label: "Class", Type: "text"},
				{Key: "level", Label: "Level", Type: "number"},
			},

			DefaultData: map[string]any{
				"name":        "Unnamed Adventurer",
				"description": "A traveler whose story has yet to be written.",
				"level":       1,
			},
			Permissions: Permissions{CanCreate: true, CanEdit: true, CanDelete: true},
		},
		{
			Name:        "npc",
			DisplayName: "NPC",
			Plural:      "NPCs",
			Icon:        "users",
			Category:    CategoryCharacter,

			Template:      "npc",
			ContextPolicy: PolicySocial,
			Schema: schema.Schema{Fields: []schema.Field{
				{Key: "name", Kind: schema.KindString, Required: true, MinLen: 2, MaxLen: 80},
				{Key: "description", Kind: schema.KindText, Required: true, MinLen: 10},
				{Key: "occupation", Kind: schema.KindString},
				{Key: "attitude", Kind: schema.KindString, Enum: []string{"friendly", "neutral", "wary", "hostile"}},
				{Key: "secret", Kind: schema.KindText},
				{Key: "voice", Kind: schema.KindString},
			}},

			DisplayFields: []DisplayField{
				{Key: "name", Label: "Name", Type: "text", Priority: 1},
				{Key: "occupation", Label: "Occupation", Type: "badge", Priority: 2},
				{Key: "attitude", Label: "Attitude", Type: "badge", Priority: 3},
				{Key: "description", Label: "Description", Type: "text", Priority: 4},
				{Key: "secret", Label: "Secret", Type: "text", Priority: 5, VisibleIf: "secret"},
			},
			EditableFields: []EditableField{
				{Key: "name", Label: "Name", Type: "text", Required: true},
				{Key: "description", Label: "Description", Type: "textarea", Required: true},
				{Key: "occupation", Label: "Occupation", Type: "text"},
				{Key: "attitude", Label: "Attitude", Type: "select", Options: []string{"friendly", "neutral", "wary", "hostile"}},
			},

			DefaultData: map[string]any{
				"name":        "Unnamed Local",
				"description": "A face in the crowd with business of their own.",
				"attitude":    "neutral",
			},
			Permissions: Permissions{CanCreate: true, CanEdit: true, CanDelete: true},
		},
		{
			Name:        "monster",
			DisplayName: "Monster",
			Plural:      "Monsters",
			Icon:        "skull",
			Category:    CategoryCharacter,

			Template:      "monster",
			ContextPolicy: PolicyCombat,
			Schema: schema.Schema{Fields: []schema.Field{
				{Key: "name", Kind: schema.KindString, Required: true, MinLen: 2, MaxLen: 80},
				{Key: "description", Kind: schema.KindText, Required: true, MinLen: 10},
				{Key: "challenge", Kind: schema.KindInteger, Min: schema.Float(1), Max: schema.Float(30)},
				{Key: "abilities", Kind: schema.KindArray, MaxLen: 8},
				{Key: "weakness", Kind: schema.KindString},
				{Key: "tactics", Kind: schema.KindText},
			}},

			DisplayFields: []DisplayField{
				{Key: "name", Label: "Name", Type: "text", Priority: 1},
				{Key: "challenge", Label: "Challenge", Type: "stat", Priority: 2},
				{Key: "description", Label: "Description", Type: "text", Priority: 3},
				{Key: "abilities", Label: "Abilities", Type: "list", Priority: 4},
				{Key: "weakness", Label: "Weakness", Type: "text", Priority: 5, VisibleIf: "weakness"},
			},
			EditableFields: []EditableField{
				{Key: "name", Label: "Name", Type: "text", Required: true},
				{Key: "description", Label: "Description", Type: "textarea", Required: true},
				{Key: "challenge", Label: "Challenge", Type: "number"},
			},

			DefaultData: map[string]any{
				"name":        "Unknown Creature",
				"description": "Something stirs here that has not been catalogued.",
				"challenge":   1,
			},
			Permissions: Permissions{CanCreate: true, CanEdit: true, CanDelete: true},
		},
		{
			Name:        "area",
			DisplayName: "Area",
			Plural:      "Areas",
			Icon:        "map",
			Category:    CategoryLocation,

			Template:      "area",
			ContextPolicy: PolicyHierarchical,
			Schema: schema.Schema{Fields: []schema.Field{
				{Key: "name", Kind: schema.KindString, Required: true, MinLen: 2, MaxLen: 80},
				{Key: "description", Kind: schema.KindText, Required: true, MinLen: 10},
				{Key: "terrain", Kind: schema.KindString},
				{Key: "mood", Kind: schema.KindString},
				{Key: "inhabitants", Kind: schema.KindArray},
				{Key: "hooks", Kind: schema.KindArray, MaxLen: 5},
			}},

			DisplayFields: []DisplayField{
				{Key: "name", Label: "Name", Type: "text", Priority: 1},
				{Key: "terrain", Label: "Terrain", Type: "badge", Priority: 2},
				{Key: "mood", Label: "Mood", Type: "badge", Priority: 3},
				{Key: "description", Label: "Description", Type: "text", Priority: 4},
				{Key: "hooks", Label: "Hooks", Type: "list", Priority: 5, VisibleIf: "hooks"},
			},
			EditableFields: []EditableField{
				{Key: "name", Label: "Name", Type: "text", Required: true},
				{Key: "description", Label: "Description", Type: "textarea", Required: true},
				{Key: "terrain", Label: "Terrain", Type: "text"},
				{Key: "mood", Label: "Mood", Type: "text"},
			},

			DefaultData: map[string]any{
				"name":        "Uncharted Ground",
				"description": "A stretch of the world no mapmaker has bothered with.",
			},
			Permissions: Permissions{CanCreate: true, CanEdit: true, CanDelete: true},
		},
		{
			Name:        "item",
			DisplayName: "Item",
			Plural:      "Items",
			Icon:        "package",
			Category:    CategoryItem,

			Template:      "item",
			ContextPolicy: PolicyHierarchical,
			Schema: schema.Schema{Fields: []schema.Field{
				{Key: "name", Kind: schema.KindString, Required: true, MinLen: 2, MaxLen: 80},
				{Key: "description", Kind: schema.KindText, Required: true, MinLen: 10},
				{Key: "rarity", Kind: schema.KindString, Enum: []string{"common", "uncommon", "rare", "legendary"}},
				{Key: "value", Kind: schema.KindInteger, Min: schema.Float(0)},
				{Key: "properties", Kind: schema.KindArray, MaxLen: 6},
				{Key: "history", Kind: schema.KindText},
			}},

			DisplayFields: []DisplayField{
				{Key: "name", Label: "Name", Type: "text", Priority: 1},
				{Key: "rarity", Label: "Rarity", Type: "badge", Priority: 2},
				{Key: "value", Label: "Value", Type: "stat", Priority: 3},
				{Key: "description", Label: "Description", Type: "text", Priority: 4},
				{Key: "properties", Label: "Properties", Type: "list", Priority: 5, VisibleIf: "properties"},
			},
			EditableFields: []EditableField{
				{Key: "name", Label: "Name", Type: "text", Required: true},
				{Key: "description", Label: "Description", Type: "textarea", Required: true},
				{Key: "rarity", Label: "Rarity", Type: "select", Options: []string{"common", "uncommon", "rare", "legendary"}},
				{Key: "value", Label: "Value", Type: "number"},
			},

			DefaultData: map[string]any{
				"name":        "Curious Trinket",
				"description": "An object of no obvious purpose and uncertain origin.",
				"rarity":      "common",
				"value":       0,
			},
			Permissions: Permissions{CanCreate: true, CanEdit: true, CanDelete: true},
		},
	}
}
