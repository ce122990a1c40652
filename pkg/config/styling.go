package config

// HexColorPattern is the accepted format of every color token.
const HexColorPattern = `^#[0-9a-fA-F]{6}$`

// StylingConfig contains visual theme tokens.
type StylingConfig struct {
	Theme Theme `json:"theme" jsonschema:"enum=light,enum=dark,enum=auto" koanf:"theme" toml:"theme"`

	Colors ColorsConfig `json:"colors" koanf:"colors" toml:"colors"`

	Borders BordersConfig `json:"borders" koanf:"borders" toml:"borders"`

	Spacing SpacingConfig `json:"spacing" koanf:"spacing" toml:"spacing"`
}

// ColorsConfig holds the color tokens. Unset tokens fall back to the widget stylesheet.
type ColorsConfig struct {
	Primary    string `json:"primary,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$" koanf:"primary" toml:"primary,omitempty"`
	Secondary  string `json:"secondary,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$" koanf:"secondary" toml:"secondary,omitempty"`
	Success    string `json:"success,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$" koanf:"success" toml:"success,omitempty"`
	Error      string `json:"error,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$" koanf:"error" toml:"error,omitempty"`
	Warning    string `json:"warning,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$" koanf:"warning" toml:"warning,omitempty"`
	Background string `json:"background,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$" koanf:"background" toml:"background,omitempty"`
	Foreground string `json:"foreground,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$" koanf:"foreground" toml:"foreground,omitempty"`
	Border     string `json:"border,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$" koanf:"border" toml:"border,omitempty"`
	Muted      string `json:"muted,omitempty" jsonschema:"pattern=^#[0-9a-fA-F]{6}$" koanf:"muted" toml:"muted,omitempty"`
}

// ColorTokens lists the color token names in declaration order.
var ColorTokens = []string{
	"primary", "secondary", "success", "error", "warning",
	"background", "foreground", "border", "muted",
}

// Tokens returns the set tokens keyed by name.
func (c ColorsConfig) Tokens() map[string]string {
	all := map[string]string{
		"primary":    c.Primary,
		"secondary":  c.Secondary,
		"success":    c.Success,
		"error":      c.Error,
		"warning":    c.Warning,
		"background": c.Background,
		"foreground": c.Foreground,
		"border":     c.Border,
		"muted":      c.Muted,
	}

	for k, v := range all {
		if v == "" {
			delete(all, k)
		}
	}

	return all
}

// BordersConfig describes the drop surface border.
type BordersConfig struct {
	// Width is the border width in pixels.
	Width int `json:"width" jsonschema:"minimum=0" koanf:"width" toml:"width"`

	Style BorderStyle `json:"style" jsonschema:"enum=solid,enum=dashed,enum=dotted,enum=none" koanf:"style" toml:"style"`

	// Radius is a CSS length.
	Radius string `json:"radius" koanf:"radius" toml:"radius"`
}

// SpacingConfig holds CSS lengths for internal spacing.
type SpacingConfig struct {
	Padding string `json:"padding" koanf:"padding" toml:"padding"`
	Gap     string `json:"gap" koanf:"gap" toml:"gap"`
}
