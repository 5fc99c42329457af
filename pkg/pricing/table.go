package pricing

import (
	"fmt"
	"strings"
)

// Table is an immutable set of base-model prices plus the normalizer that
// resolves reported model names onto them.
type Table struct {
	provider   string
	updated    string
	models     []ModelPricing
	byModel    map[string]ModelPricing
	normalizer Normalizer
}

// NewTable validates cfg and builds a table from it. Model order is kept as
// the normalization priority, so an entry may not be preceded by a shorter
// entry that it starts with.
func NewTable(cfg *ProviderConfig) (*Table, error) {
	if cfg == nil || len(cfg.Models) == 0 {
		return nil, fmt.Errorf("pricing: no models defined")
	}

	models := make([]ModelPricing, 0, len(cfg.Models))
	byModel := make(map[string]ModelPricing, len(cfg.Models))
	prefixes := make([]string, 0, len(cfg.Models))

	for i, m := range cfg.Models {
		if m.Model == "" {
			return nil, fmt.Errorf("pricing: model %d has no name", i+1)
		}
		if m.InputPerMillion < 0 || m.CachedInputPerMillion < 0 || m.OutputPerMillion < 0 {
			return nil, fmt.Errorf("pricing: model %q has a negative rate", m.Model)
		}
		if _, dup := byModel[m.Model]; dup {
			return nil, fmt.Errorf("pricing: model %q defined twice", m.Model)
		}
		for _, earlier := range prefixes {
			if strings.HasPrefix(m.Model, earlier) {
				return nil, fmt.Errorf("pricing: model %q is shadowed by earlier entry %q; list it first", m.Model, earlier)
			}
		}

		models = append(models, m)
		byModel[m.Model] = m
		prefixes = append(prefixes, m.Model)
	}

	return &Table{
		provider:   cfg.Provider,
		updated:    cfg.Updated,
		models:     models,
		byModel:    byModel,
		normalizer: NewNormalizer(prefixes...),
	}, nil
}

// Provider names the pricing source, for example "openai".
func (t *Table) Provider() string { return t.provider }

// Updated is the free-form date the prices were last checked.
func (t *Table) Updated() string { return t.updated }

// Models returns the priced base models in match order.
func (t *Table) Models() []ModelPricing {
	return append([]ModelPricing(nil), t.models...)
}

// Lookup returns the pricing for an exact base model name.
func (t *Table) Lookup(baseModel string) (ModelPricing, bool) {
	p, ok := t.byModel[baseModel]
	return p, ok
}

// BaseModel normalizes a reported model name against this table.
func (t *Table) BaseModel(name string) string {
	return t.normalizer.BaseModel(name)
}

// Resolve normalizes name and looks up its pricing.
func (t *Table) Resolve(name string) (string, ModelPricing, bool) {
	base := t.BaseModel(name)
	p, ok := t.Lookup(base)
	return base, p, ok
}
