package config

import "github.com/shuldan/config/pkg/contracts"

// Capability is the standard contracts.Configurable implementation. Embed it
// in a component and hand it the component's container:
//
//	type Mailer struct {
//		config.Capability
//	}
//
//	func NewMailer(custom map[string]any) *Mailer {
//		return &Mailer{Capability: config.NewCapability(config.FromMaps(mailerDefaults, custom))}
//	}
//
// Every method forwards to the owned LayeredConfig.
type Capability struct {
	config *LayeredConfig
}

var _ contracts.Configurable = Capability{}

func NewCapability(cfg *LayeredConfig) Capability {
	return Capability{config: cfg}
}

// Config exposes the owned container to the embedding component.
func (c Capability) Config() *LayeredConfig {
	return c.config
}

func (c Capability) AddConfig(key string, value any) contracts.Configurable {
	c.config.Set(key, value)
	return c
}

func (c Capability) RemoveConfig(key string) bool {
	return c.config.Remove(key)
}

func (c Capability) GetConfig(key string) any {
	return c.config.Get(key)
}

func (c Capability) GetFullConfig() map[string]any {
	return c.config.All()
}

func (c Capability) GetCustomConfig() map[string]any {
	return c.config.CustomConfig()
}

func (c Capability) GetDefaultConfig() map[string]any {
	return c.config.DefaultConfig()
}
