package internal

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/miekg/dns"
)

const (
	asnZone4 = "origin.asn.cymru.com."
	asnZone6 = "origin6.asn.cymru.com."
)

// asnInfo is the outcome of a best-effort origin lookup: either the TXT
// text or the reason it is unavailable. It is never an error.
type asnInfo struct {
	text   string
	reason string
}

func asnOK(text string) asnInfo {
	return asnInfo{text: text}
}

func asnUnavailable(err error) asnInfo {
	return asnInfo{reason: fmt.Sprintf("%T: %v", err, err)}
}

func (i asnInfo) ok() bool {
	return i.reason == ""
}

func (i asnInfo) String() string {
	if i.ok() {
		return i.text
	}
	return i.reason
}

func asnQueryName(addr netip.Addr) (string, error) {
	arpa, err := dns.ReverseAddr(addr.String())
	if err != nil {
		return "", err
	}
	if addr.Is4() {
		return strings.TrimSuffix(arpa, "in-addr.arpa.") + asnZone4, nil
	}
	return strings.TrimSuffix(arpa, "ip6.arpa.") + asnZone6, nil
}

func (a *app) lookupASN(ctx context.Context, addr netip.Addr) asnInfo {
	name, err := asnQueryName(addr)
	if err != nil {
		return asnUnavailable(err)
	}

	msg, err := a.query(ctx, name, dns.TypeTXT)
	if err != nil {
		return asnUnavailable(err)
	}

	for _, rr := range msg.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			return asnOK(strings.Join(txt.Txt, ""))
		}
	}
	return asnUnavailable(errors.New("no TXT record for " + name))
}

func (a *app) query(
	ctx context.Context,
	host string,
	qtype uint16,
) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, srv := range a.servers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		resp, _, err := a.client.ExchangeContext(ctx, msg, srv)
		if err == nil && resp != nil {
			if resp.Rcode == dns.RcodeSuccess {
				return resp, nil
			}
			lastErr = fmt.Errorf("rcode %s", dns.RcodeToString[resp.Rcode])
			continue
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no response")
	}
	return nil, lastErr
}
