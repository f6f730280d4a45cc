package plugin

import (
	"github.com/xxxsen/ncfolder/gateway"
	"github.com/xxxsen/ncfolder/notify"
	"github.com/xxxsen/ncfolder/schema"
)

type GatewayFactory func(s *schema.Settings) gateway.IGateway

type config struct {
	gwFactory GatewayFactory
	notifier  notify.INotifier
}

type Option func(c *config)

func WithGatewayFactory(fn GatewayFactory) Option {
	return func(c *config) {
		c.gwFactory = fn
	}
}

func WithNotifier(n notify.INotifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

func defaultGatewayFactory(s *schema.Settings) gateway.IGateway {
	return gateway.New(gateway.WithEndpoint(s.Endpoint()))
}

func applyOpts(opts ...Option) *config {
	c := &config{
		gwFactory: defaultGatewayFactory,
		notifier:  notify.NewLogNotifier(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
