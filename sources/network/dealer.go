package network

import (
	"chatledger/sources/tracing"

	"golang.org/x/net/proxy"
)

// NewProxyDialer returns a SOCKS5 dialer when a proxy address is configured and a direct dialer otherwise.
func NewProxyDialer(config *ProxyConfig, log *tracing.Logger) (proxy.Dialer, error) {
	if config.ProxyAddress == "" {
		log.D("No proxy configured, dialing directly")
		return proxy.Direct, nil
	}

	var auth *proxy.Auth
	if config.ProxyUser != "" {
		auth = &proxy.Auth{User: config.ProxyUser, Password: config.ProxyPass}
	}

	dialer, err := proxy.SOCKS5("tcp", config.ProxyAddress, auth, proxy.Direct)
	if err != nil {
		log.E("Failed to create proxy dialer", tracing.InnerError, err, tracing.ProxyUrl, config.ProxyAddress)
		return nil, err
	}

	log.I("Proxy dialer created", tracing.ProxyUrl, config.ProxyAddress)
	return dialer, nil
}
