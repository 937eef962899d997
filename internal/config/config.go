// Package config loads the evaluator configuration: score weights,
// thresholds, template pin, pattern vocabulary override, ignore globs,
// and browser settings. Values absent from the file keep their defaults.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/virtual-labs/tool-ai-quality-assurance-iiith/internal/corpus"
)

// Config is the top-level configuration.
type Config struct {
	Weights     Weights    `yaml:"weights"`
	Thresholds  Thresholds `yaml:"thresholds"`
	Template    Template   `yaml:"template"`
	Patterns    Patterns   `yaml:"patterns"`
	Ignore      []string   `yaml:"ignore"`
	Browser     Browser    `yaml:"browser"`
	Concurrency int        `yaml:"concurrency"`
}

// Weights distribute the final score across the three evaluated areas.
// They are normalized before use, so only their ratio matters.
type Weights struct {
	Structure  float64 `yaml:"structure"`
	Content    float64 `yaml:"content"`
	Simulation float64 `yaml:"simulation"`
}

// Thresholds tune evaluation gates, penalties, and status bands.
type Thresholds struct {
	StructureMinimum     float64 `yaml:"structure_minimum"`
	TemplatePenalty      float64 `yaml:"template_penalty"`
	GoodScore            float64 `yaml:"good_score"`
	SatisfactoryScore    float64 `yaml:"satisfactory_score"`
	MinimumContentLength int     `yaml:"minimum_content_length"`
}

// Template pins the reference template source for corpus building.
type Template struct {
	Repo    string   `yaml:"repo"`
	Ref     string   `yaml:"ref"`
	Dir     string   `yaml:"dir"`
	Timeout Duration `yaml:"timeout"`
}

// Patterns points at an external vocabulary file overriding the embedded
// phrase set.
type Patterns struct {
	Vocabulary string `yaml:"vocabulary"`
}

// Browser controls the optional smoke checks.
type Browser struct {
	Enabled bool     `yaml:"enabled"`
	Timeout Duration `yaml:"timeout"`
}

// Duration wraps time.Duration so YAML can carry values like "60s".
// Bare integers are read as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a scalar like \"60s\" or a number of seconds")
	}
	if parsed, err := time.ParseDuration(s); err == nil {
		*d = Duration(parsed)
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		*d = Duration(time.Duration(n * float64(time.Second)))
		return nil
	}
	return fmt.Errorf("invalid duration %q: use a value like \"60s\" or a number of seconds", s)
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Weights: Weights{
			Structure:  0.25,
			Content:    0.5,
			Simulation: 0.25,
		},
		Thresholds: Thresholds{
			StructureMinimum:     3.0,
			TemplatePenalty:      0.3,
			GoodScore:            8.0,
			SatisfactoryScore:    5.0,
			MinimumContentLength: 50,
		},
		Template: Template{
			Repo:    corpus.DefaultRepository,
			Ref:     corpus.DefaultRef,
			Timeout: Duration(corpus.DefaultTimeout),
		},
		Browser: Browser{
			Enabled: false,
			Timeout: Duration(30 * time.Second),
		},
	}
}

// Validate rejects configurations that would make scoring meaningless.
// Errors name the offending key.
func (c *Config) Validate() error {
	w := c.Weights
	if w.Structure < 0 || w.Content < 0 || w.Simulation < 0 {
		return fmt.Errorf("weights must not be negative")
	}
	if w.Structure+w.Content+w.Simulation <= 0 {
		return fmt.Errorf("weights must sum to a positive value")
	}

	t := c.Thresholds
	if t.StructureMinimum < 0 || t.StructureMinimum > 10 {
		return fmt.Errorf("thresholds.structure_minimum must be between 0 and 10, got %v", t.StructureMinimum)
	}
	if t.TemplatePenalty < 0 || t.TemplatePenalty >= 1 {
		return fmt.Errorf("thresholds.template_penalty must be in [0, 1), got %v", t.TemplatePenalty)
	}
	if t.GoodScore < t.SatisfactoryScore {
		return fmt.Errorf("thresholds.good_score must not be below thresholds.satisfactory_score")
	}
	if t.MinimumContentLength < 0 {
		return fmt.Errorf("thresholds.minimum_content_length must not be negative, got %d", t.MinimumContentLength)
	}

	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Template.Timeout < 0 {
		return fmt.Errorf("template.timeout must not be negative")
	}
	if c.Browser.Timeout < 0 {
		return fmt.Errorf("browser.timeout must not be negative")
	}
	return nil
}

// Ignored reports whether relPath matches any configured ignore glob.
// Invalid patterns are skipped.
func (c *Config) Ignored(relPath string) bool {
	for _, pattern := range c.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			continue
		}
		if g.Match(relPath) {
			return true
		}
	}
	return false
}
