// Package drafting turns untrusted generative-model output into drafts whose
// fields carry the kinds a caller declared up front.
package drafting

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FieldKind is the primitive kind a draft field is expected to hold.
type FieldKind int

const (
	String FieldKind = iota + 1
	Number
	Boolean
)

// CampaignStrategy is the draft kind produced for the campaign creation flow.
const CampaignStrategy = "campaign-strategy"

var (
	ErrUnknownKind  = errors.New("unknown draft kind")
	ErrInvalidField = errors.New("invalid schema field")
)

func (k FieldKind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// ParseFieldKind maps the configuration spelling of a kind to a FieldKind.
func ParseFieldKind(s string) (FieldKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string":
		return String, nil
	case "number", "integer", "float":
		return Number, nil
	case "boolean", "bool":
		return Boolean, nil
	default:
		return 0, fmt.Errorf("%w: unsupported field kind %q", ErrInvalidField, s)
	}
}

// Field is one entry of a Schema.
type Field struct {
	Name string
	Kind FieldKind
}

// Schema lists the fields of one draft kind. Normalization visits fields in
// this order.
type Schema []Field

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}
	return names
}

// Validate rejects empty names, duplicated names and unknown kinds.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: schema has no fields", ErrInvalidField)
	}

	seen := make(map[string]struct{}, len(s))
	for i, f := range s {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("%w: field #%d has no name", ErrInvalidField, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: field %q declared twice", ErrInvalidField, f.Name)
		}
		switch f.Kind {
		case String, Number, Boolean:
		default:
			return fmt.Errorf("%w: field %q has kind %s", ErrInvalidField, f.Name, f.Kind)
		}
		seen[f.Name] = struct{}{}
	}

	return nil
}

// CampaignStrategySchema is the shape the campaign strategist prompt asks the
// model to return.
func CampaignStrategySchema() Schema {
	return Schema{
		{Name: "aiSummary", Kind: String},
		{Name: "objectives", Kind: String},
		{Name: "targetAudienceMin", Kind: Number},
		{Name: "targetAudienceMax", Kind: Number},
		{Name: "athleteIntegration", Kind: String},
		{Name: "channels", Kind: String},
		{Name: "timeline", Kind: String},
		{Name: "budgetBreakdown", Kind: String},
		{Name: "creativeConcept", Kind: String},
		{Name: "brandTone", Kind: String},
		{Name: "influencerAngle", Kind: String},
		{Name: "brandMentions", Kind: String},
		{Name: "metrics", Kind: String},
		{Name: "questions", Kind: String},
		{Name: "productLaunch", Kind: Boolean},
		{Name: "engagementGoal", Kind: Number},
		{Name: "conversionGoal", Kind: Number},
		{Name: "impressionsGoal", Kind: Number},
		{Name: "contentDeliverables", Kind: String},
		{Name: "eventPromotion", Kind: Boolean},
		{Name: "csrInitiative", Kind: Boolean},
	}
}

// Registry maps draft kinds to their schemas. Registration happens at start
// up; lookups afterwards are read-only and safe to share between requests.
type Registry struct {
	schemas map[string]Schema
}

// NewRegistry returns a registry that already knows CampaignStrategy.
func NewRegistry() *Registry {
	return &Registry{
		schemas: map[string]Schema{
			CampaignStrategy: CampaignStrategySchema(),
		},
	}
}

// Register adds or replaces the schema of a draft kind.
func (r *Registry) Register(kind string, schema Schema) error {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return fmt.Errorf("%w: draft kind must not be empty", ErrInvalidField)
	}
	if err := schema.Validate(); err != nil {
		return fmt.Errorf("draft kind %q: %w", kind, err)
	}

	r.schemas[kind] = append(Schema(nil), schema...)
	return nil
}

// Lookup returns the schema registered for kind. An empty kind resolves to
// CampaignStrategy.
func (r *Registry) Lookup(kind string) (Schema, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		kind = CampaignStrategy
	}

	schema, ok := r.schemas[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return schema, nil
}

// Kinds lists the registered draft kinds alphabetically.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.schemas))
	for kind := range r.schemas {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
