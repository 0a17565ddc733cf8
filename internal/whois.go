package internal

import (
	"net/netip"
	"strings"

	"go4.org/netipx"
)

func (a *app) whoisReport(addr netip.Addr) {
	ip := addr.String()
	resp, err := a.whois(ip)
	if err != nil {
		a.log.Debug("whois failed", "ip", ip, "err", err)
		a.friendly(ip + " whois: netrange lookup failed")
		return
	}

	blocks := parseWhoisRange(resp)
	if len(blocks) == 0 {
		a.friendly(ip + " whois: no netrange in response")
		return
	}

	var parts []string
	for _, b := range blocks {
		parts = append(parts, b.String())
	}
	a.friendly(ip + " whois netrange: " + strings.Join(parts, ", "))
}

func parseWhoisRange(body string) []netip.Prefix {
	for _, line := range strings.Split(body, "\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		switch key {
		case "inetnum", "inet6num", "netrange", "cidr":
		default:
			continue
		}
		val := strings.TrimSpace(parts[1])

		if strings.Contains(val, "/") {
			var out []netip.Prefix
			for _, field := range strings.Split(val, ",") {
				p, err := netip.ParsePrefix(strings.TrimSpace(field))
				if err == nil {
					out = append(out, p.Masked())
				}
			}
			if len(out) > 0 {
				return out
			}
		}

		if r, ok := rangeBounds(val); ok {
			return r.Prefixes()
		}
	}
	return nil
}

func rangeBounds(text string) (netipx.IPRange, bool) {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '-' || r == ' '
	})
	if len(parts) < 2 {
		return netipx.IPRange{}, false
	}
	start, err := netip.ParseAddr(parts[0])
	if err != nil {
		return netipx.IPRange{}, false
	}
	end, err := netip.ParseAddr(parts[1])
	if err != nil {
		return netipx.IPRange{}, false
	}
	r := netipx.IPRangeFrom(start, end)
	return r, r.IsValid()
}
