package pricing

// ModelPricing holds the rates for one base model, in USD per million tokens.
type ModelPricing struct {
	Model                 string  `yaml:"model"`
	InputPerMillion       float64 `yaml:"input_per_million"`
	CachedInputPerMillion float64 `yaml:"cached_input_per_million"`
	OutputPerMillion      float64 `yaml:"output_per_million"`
}

// ProviderConfig is the YAML shape of a pricing file.
// The order of Models is the match priority used for model normalization.
type ProviderConfig struct {
	Provider string         `yaml:"provider"`
	Updated  string         `yaml:"updated"`
	Models   []ModelPricing `yaml:"models"`
}
