package network

import (
	"time"
	"chatledger/sources/configuration"
	"chatledger/sources/platform"
)

type ProxyConfig struct {
	ProxyAddress string
	ProxyUser    string
	ProxyPass    string
	Timeout      time.Duration
}

func NewProxyConfig(config *configuration.Config) *ProxyConfig {
	return &ProxyConfig{
		ProxyAddress: platform.Get("PROXY_ADDRESS", config.Proxy.URL),
		ProxyUser:    platform.Get("PROXY_USER", config.Proxy.User),
		ProxyPass:    platform.Get("PROXY_PASS", config.Proxy.Password),
		Timeout:      time.Duration(platform.GetAsInt("NETWORK_TIMEOUT_SECONDS", config.Network.TimeoutSeconds)) * time.Second,
	}
}
