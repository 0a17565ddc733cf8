package internal

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"
)

// Special-purpose blocks that are not globally reachable, on top of what
// netip already reports as private, loopback, link-local or multicast.
var reservedPrefixes = []string{
	"0.0.0.0/8",
	"100.64.0.0/10",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"240.0.0.0/4",
	"255.255.255.255/32",
	"::/128",
	"::ffff:0:0/96",
	"64:ff9b:1::/48",
	"100::/64",
	"2001::/23",
	"2001:db8::/32",
	"2002::/16",
	"3fff::/20",
	"fc00::/7",
	"fec0::/10",
}

var reservedSet = mustIPSet(reservedPrefixes)

func mustIPSet(prefixes []string) *netipx.IPSet {
	var b netipx.IPSetBuilder
	for _, p := range prefixes {
		b.AddPrefix(netip.MustParsePrefix(p))
	}
	set, err := b.IPSet()
	if err != nil {
		panic(err)
	}
	return set
}

func isGlobal(addr netip.Addr) bool {
	if !addr.IsValid() || addr.Is4In6() || addr.Zone() != "" {
		return false
	}
	if !addr.IsGlobalUnicast() || addr.IsPrivate() {
		return false
	}
	return !reservedSet.Contains(addr)
}

type classifier struct {
	host  string
	hosts *netipx.IPSet
	asn   func(ctx context.Context, addr netip.Addr) asnInfo
	skip  func(raw, reason string)
}

// pick returns the first candidate of the wanted family that parses and is
// globally routable, or nil when none qualifies.
func (c *classifier) pick(
	ctx context.Context,
	raws []string,
	want4 bool,
) *candidate {
	for _, raw := range raws {
		addr, err := parseFamily(raw, want4)
		if err != nil {
			c.skipped(raw, err.Error())
			continue
		}
		if !isGlobal(addr) {
			c.skipped(raw, "not global")
			continue
		}

		cand := &candidate{
			addr:    addr,
			display: addr.String(),
			asn:     c.asn(ctx, addr),
		}
		if c.hosts != nil && c.hosts.Contains(addr) {
			cand.display = c.host
			cand.matchesHost = true
		}
		return cand
	}
	return nil
}

func (c *classifier) skipped(raw, reason string) {
	if c.skip != nil {
		c.skip(raw, reason)
	}
}

func parseFamily(raw string, want4 bool) (netip.Addr, error) {
	raw = strings.TrimSuffix(raw, ".")
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Addr{}, err
	}
	if want4 && !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%s is not an IPv4 address", raw)
	}
	if !want4 && !addr.Is6() {
		return netip.Addr{}, fmt.Errorf("%s is not an IPv6 address", raw)
	}
	return addr, nil
}

func (a *app) classify(
	ctx context.Context,
	host string,
	resolved []netip.Addr,
	pg *page,
) (scrapeResult, error) {
	set, err := hostSet(resolved)
	if err != nil {
		return scrapeResult{}, err
	}

	c := &classifier{
		host:  host,
		hosts: set,
		asn:   a.lookupASN,
		skip: func(raw, reason string) {
			a.log.Debug("skipping candidate", "ip", raw, "reason", reason)
		},
	}

	v4 := ip4Candidates(pg.text)
	v6 := ip6Candidates(pg.text)
	a.log.Debug("scraped candidates", "ipv4", v4, "ipv6", v6)

	res := scrapeResult{
		ipv4: c.pick(ctx, v4, true),
		ipv6: c.pick(ctx, v6, false),
	}
	if res.ipv4 == nil && res.ipv6 == nil {
		return res, fmt.Errorf(
			"%w: no global address found on %s",
			ErrInput,
			host,
		)
	}
	return res, nil
}
