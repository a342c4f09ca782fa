package agent

import (
	"github.com/hupe1980/confcierge/logging"
	"github.com/hupe1980/confcierge/model"
)

// baseAgent bundles the identity, model and logger shared by all concrete
// agents.
type baseAgent struct {
	name   string
	model  model.Model
	logger logging.Logger
}

func newBaseAgent(name string, m model.Model, logger logging.Logger) baseAgent {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return baseAgent{name: name, model: m, logger: logger}
}

// Name returns the human-readable name for this agent.
func (b *baseAgent) Name() string { return b.name }

// Options configure an agent.
type Options struct {
	Logger logging.Logger
}
