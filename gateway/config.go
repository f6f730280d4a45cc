package gateway

import (
	"net/http"
	"time"
)

type Endpoint struct {
	BaseURL  string
	User     string
	Password string
}

type config struct {
	Endpoint Endpoint
	Client   *http.Client
}

type Option func(*config)

func WithEndpoint(ep Endpoint) Option {
	return func(c *config) {
		c.Endpoint = ep
	}
}

func WithBaseURL(u string) Option {
	return func(c *config) {
		c.Endpoint.BaseURL = u
	}
}

func WithAuth(user string, password string) Option {
	return func(c *config) {
		c.Endpoint.User = user
		c.Endpoint.Password = password
	}
}

func WithHTTPClient(cli *http.Client) Option {
	return func(c *config) {
		c.Client = cli
	}
}

func WithTimeout(t time.Duration) Option {
	return func(c *config) {
		c.Client = &http.Client{
			Timeout:       t,
			Transport:     defaultHttpClient.Transport,
			CheckRedirect: noRedirect,
		}
	}
}
