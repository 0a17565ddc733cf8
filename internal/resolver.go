package internal

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"

	"github.com/miekg/dns"
	"go4.org/netipx"
	"golang.org/x/net/idna"
)

func loadResolver(server string) (*dns.ClientConfig, error) {
	if server != "" {
		host, port, err := splitHostPort(server)
		if err != nil {
			return nil, err
		}
		return &dns.ClientConfig{
			Servers: []string{host},
			Port:    port,
		}, nil
	}

	cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	return cfg, nil
}

func splitHostPort(host string) (string, string, error) {
	if strings.Contains(host, ":") {
		h, p, err := net.SplitHostPort(host)
		if err != nil {
			return "", "", err
		}
		return h, p, nil
	}
	return host, "53", nil
}

func serverList(cfg *dns.ClientConfig) []string {
	var servers []string
	for _, srv := range cfg.Servers {
		servers = append(servers, net.JoinHostPort(srv, cfg.Port))
	}
	return servers
}

func systemLookup(ctx context.Context, host string) ([]netip.Addr, error) {
	return net.DefaultResolver.LookupNetIP(ctx, "ip", host)
}

// normalizeURL defaults the scheme to http and returns the URL together
// with the bare hostname used for resolution and display.
func normalizeURL(raw string) (string, string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: bad url %q: %v", ErrInput, raw, err)
	}

	host := u.Hostname()
	if host == "" {
		return "", "", fmt.Errorf("%w: no host in %q", ErrInput, raw)
	}
	return u.String(), host, nil
}

func (a *app) resolveHost(ctx context.Context, host string) ([]netip.Addr, error) {
	name := host
	if _, err := netip.ParseAddr(host); err != nil {
		name, err = idna.Lookup.ToASCII(host)
		if err != nil {
			return nil, fmt.Errorf("%w: bad hostname %q: %v", ErrInput, host, err)
		}
	}

	addrs, err := a.lookup(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %v", ErrNetwork, host, err)
	}

	out := make([]netip.Addr, 0, len(addrs))
	for _, addr := range addrs {
		out = append(out, addr.Unmap())
	}
	a.log.Debug("resolved host", "host", host, "addrs", out)
	return out, nil
}

func hostSet(addrs []netip.Addr) (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	for _, addr := range addrs {
		b.Add(addr.Unmap())
	}
	return b.IPSet()
}

// dnsOnly picks at most one address per family, each represented by the
// hostname itself.
func dnsOnly(host string, addrs []netip.Addr) scrapeResult {
	var res scrapeResult
	for _, addr := range addrs {
		if res.ipv4 != nil && res.ipv6 != nil {
			break
		}
		addr = addr.Unmap()
		c := &candidate{addr: addr, display: host, matchesHost: true}
		if res.ipv4 == nil && addr.Is4() {
			res.ipv4 = c
		}
		if res.ipv6 == nil && addr.Is6() {
			res.ipv6 = c
		}
	}
	return res
}
