package scan

import (
	"github.com/hyperifyio/articlefilter/internal/match"
	"github.com/hyperifyio/articlefilter/internal/resolve"
)

// Config is the active filter configuration. It is replaced wholesale on
// every settings change and never modified in place.
type Config struct {
	Keywords match.KeywordSet
	// FilterBody lets the main article body take part in matching. Cards
	// and strips are filtered regardless.
	FilterBody bool
}

// NewConfig builds a Config from raw keyword strings.
func NewConfig(rawKeywords []string, filterBody bool) *Config {
	return &Config{Keywords: match.NewKeywordSet(rawKeywords), FilterBody: filterBody}
}

// Options are the orchestrator thresholds. Zero fields take defaults.
type Options struct {
	Policy resolve.Policy

	// StripMinChars and StripMaxChars delimit a usable strip label.
	StripMinChars int
	StripMaxChars int

	// ContentTargetMinChars is the shortest article body considered for
	// matching; shorter bodies are boilerplate and stay visible.
	ContentTargetMinChars int
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		Policy:                resolve.DefaultPolicy(),
		StripMinChars:         2,
		StripMaxChars:         120,
		ContentTargetMinChars: 80,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	p := &o.Policy
	dp := def.Policy
	if p.CardDepth <= 0 {
		p.CardDepth = dp.CardDepth
	}
	if p.StripDepth <= 0 {
		p.StripDepth = dp.StripDepth
	}
	if p.CardMinChars <= 0 {
		p.CardMinChars = dp.CardMinChars
	}
	if p.CardMaxChars <= 0 {
		p.CardMaxChars = dp.CardMaxChars
	}
	if p.LabelMaxChars <= 0 {
		p.LabelMaxChars = dp.LabelMaxChars
	}
	if p.NextStripMaxChars <= 0 {
		p.NextStripMaxChars = dp.NextStripMaxChars
	}
	if p.NextStripMaxLinks <= 0 {
		p.NextStripMaxLinks = dp.NextStripMaxLinks
	}
	if p.ContainerMinLinks <= 0 {
		p.ContainerMinLinks = dp.ContainerMinLinks
	}
	if p.ContainerMinCards <= 0 {
		p.ContainerMinCards = dp.ContainerMinCards
	}
	if o.StripMinChars <= 0 {
		o.StripMinChars = def.StripMinChars
	}
	if o.StripMaxChars <= 0 {
		o.StripMaxChars = def.StripMaxChars
	}
	if o.ContentTargetMinChars <= 0 {
		o.ContentTargetMinChars = def.ContentTargetMinChars
	}
	return o
}
