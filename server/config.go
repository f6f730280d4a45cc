package server

import (
	"github.com/xxxsen/ncfolder/config"
	"github.com/xxxsen/ncfolder/host"
)

type serverConfig struct {
	userMap map[string]string
	roleMap map[string]string
	host    *host.Host
}

type Option func(c *serverConfig)

func WithUsers(m map[string]*config.UserConfig) Option {
	return func(c *serverConfig) {
		for name, u := range m {
			if u == nil {
				continue
			}
			c.userMap[name] = u.Password
			c.roleMap[name] = u.Role
		}
	}
}

func WithHost(h *host.Host) Option {
	return func(c *serverConfig) {
		c.host = h
	}
}

func applyOpts(opts ...Option) *serverConfig {
	c := &serverConfig{
		userMap: make(map[string]string),
		roleMap: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *serverConfig) roleOf(user string) string {
	return c.roleMap[user]
}
