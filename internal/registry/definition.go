package registry

import (
	"fmt"

	"github.com/sethtw/saga-sub000/internal/schema"
)

// Category is the closed set of object-type categories.
type Category string

const (
	CategoryCharacter Category = "character"
	CategoryLocation  Category = "location"
	CategoryItem      Category = "item"
	CategoryLore      Category = "lore"
)

var validCategories = map[Category]bool{
	CategoryCharacter: true,
	CategoryLocation:  true,
	CategoryItem:      true,
	CategoryLore:      true,
}

// ContextPolicy names the context-builder variant a type generates with.
type ContextPolicy string

const (
	PolicyHierarchical ContextPolicy = "hierarchical"
	PolicySocial       ContextPolicy = "social"
	PolicyCombat       ContextPolicy = "combat"
)

var validPolicies = map[ContextPolicy]bool{
	PolicyHierarchical: true,
	PolicySocial:       true,
	PolicyCombat:       true,
}

var validDisplayFieldTypes = map[string]bool{
	"text":  true,
	"badge": true,
	"list":  true,
	"stat":  true,
}

var validEditableFieldTypes = map[string]bool{
	"text":     true,
	"textarea": true,
	"number":   true,
	"select":   true,
	"checkbox": true,
}

// DisplayField describes how one payload field is presented. VisibleIf, when
// set, names another payload field whose truthiness gates visibility.
type DisplayField struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Type      string `json:"type"`
	Priority  int    `json:"priority"`
	VisibleIf string `json:"visible_if,omitempty"`
}

// EditableField describes one user-editable payload field.
type EditableField struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// Permissions are the per-type capability flags surfaced to clients.
type Permissions struct {
	CanCreate bool `json:"can_create"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// TypeDefinition is the immutable description of one generatable object kind.
type TypeDefinition struct {
	// identity
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Plural      string   `json:"plural"`
	Icon        string   `json:"icon"`
	Category    Category `json:"category"`

	// generation
	Template      string        `json:"template"`
	Schema        schema.Schema `json:"schema"`
	ContextPolicy ContextPolicy `json:"context_policy"`

	// UI
	DisplayFields  []DisplayField  `json:"display_fields"`
	EditableFields []EditableField `json:"editable_fields"`

	DefaultData map[string]any `json:"default_data"`
	Permissions Permissions    `json:"permissions"`
}

// validateDefinition checks the structural invariants and reports the first
// violation.
func validateDefinition(def TypeDefinition) error {
	if def.Name == "" {
		return &RegistryError{Reason: "definition name is required"}
	}
	if !validCategories[def.Category] {
		return &RegistryError{Reason: fmt.Sprintf("type %q: category %q is not in the closed set", def.Name, def.Category)}
	}
	if def.Template == "" {
		return &RegistryError{Reason: fmt.Sprintf("type %q: template name is required", def.Name)}
	}
	if len(def.Schema.Fields) == 0 {
		return &RegistryError{Reason: fmt.Sprintf("type %q: schema is required", def.Name)}
	}
	if !validPolicies[def.ContextPolicy] {
		return &RegistryError{Reason: fmt.Sprintf("type %q: context policy %q is not in the closed set", def.Name, def.ContextPolicy)}
	}
	for _, f := range def.Schema.Fields {
		if f.Key == "" {
			return &RegistryError{Reason: fmt.Sprintf("type %q: schema field missing key", def.Name)}
		}
		if !schema.ValidKind(f.Kind) {
			return &RegistryError{Reason: fmt.Sprintf("type %q: schema field %q has unknown kind %q", def.Name, f.Key, f.Kind)}
		}
	}
	for _, f := range def.DisplayFields {
		if f.Key == "" || f.Label == "" {
			return &RegistryError{Reason: fmt.Sprintf("type %q: display field must declare key and label", def.Name)}
		}
		if !validDisplayFieldTypes[f.Type] {
			return &RegistryError{Reason: fmt.Sprintf("type %q: display field %q has unknown type %q", def.Name, f.Key, f.Type)}
		}
	}
	for _, f := range def.EditableFields {
		if f.Key == "" || f.Label == "" {
			return &RegistryError{Reason: fmt.Sprintf("type %q: editable field must declare key and label", def.Name)}
		}
		if !validEditableFieldTypes[f.Type] {
			return &RegistryError{Reason: fmt.Sprintf("type %q: editable field %q has unknown type %q", def.Name, f.Key, f.Type)}
		}
	}
	return nil
}
