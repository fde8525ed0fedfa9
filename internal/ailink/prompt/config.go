// Package prompt loads and serves the agent prompt definitions. Each
// prompt is a markdown file with YAML frontmatter; the body is the
// system template sent to the model.
package prompt

// Config describes a prompt definition loaded from YAML.
type Config struct {
	Slug           string         `yaml:"slug" json:"slug"`
	Name           string         `yaml:"name,omitempty" json:"name,omitempty"`
	Description    string         `yaml:"description,omitempty" json:"description,omitempty"`
	Version        string         `yaml:"version,omitempty" json:"version,omitempty"`
	Agent          string         `yaml:"agent,omitempty" json:"agent,omitempty"`
	SystemTemplate string         `yaml:"system_template,omitempty" json:"system_template,omitempty"`
	ResponseSchema map[string]any `yaml:"response_schema,omitempty" json:"response_schema,omitempty"`
}

// Prompt wraps a prompt configuration with its source.
type Prompt struct {
	Config Config
	Source string
}
