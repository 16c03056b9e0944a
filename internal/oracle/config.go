package oracle

// ModelTier represents the capability level of a model.
type ModelTier string

const (
	// TierLite is for simple text tasks: document tie-breaks, short answers.
	TierLite ModelTier = "lite"
	// TierVision is for reading schedule PDFs; must support document input.
	TierVision ModelTier = "vision"
)

// Config holds the model configuration for oracle calls.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model configuration.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:   "gemini-2.5-flash-lite",
			TierVision: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a tier, falling back to the vision
// model when a tier is unconfigured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierVision]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with one tier overridden.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{Models: make(map[ModelTier]string, len(c.Models))}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
