package internal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/miekg/dns"
)

const (
	program         = "smokeadd"
	version         = "1.0.0"
	defaultMaxBytes = 65536
	defaultLevels   = 2
	fetchTimeout    = 10 * time.Second
	acceptHeader    = "text/*"
	red             = "\033[1;31m"
	blue            = "\033[1;34m"
	reset           = "\033[0m"
)

var (
	ErrInput    = errors.New("invalid input")
	ErrNetwork  = errors.New("network failure")
	ErrTooLarge = errors.New("http response too large")
)

type options struct {
	url       string
	country   string
	province  string
	city      string
	name      string
	isp       string
	forceDNS  bool
	dnsServer string
	maxBytes  int
	levels    int
	whois     bool
	noColor   bool
	verbose   bool
	help      bool
}

// candidate is an address accepted by the classifier. display is either
// the literal or the queried hostname when the literal is one of its
// resolved addresses.
type candidate struct {
	addr        netip.Addr
	display     string
	matchesHost bool
	asn         asnInfo
}

type scrapeResult struct {
	ipv4 *candidate
	ipv6 *candidate
}

type page struct {
	text  string
	title string
}

type entry struct {
	name     string
	address  string
	isp      string
	country  string
	province string
	city     string
}

type lookupFunc func(ctx context.Context, host string) ([]netip.Addr, error)

type app struct {
	opts    *options
	log     *slog.Logger
	out     io.Writer
	colorOn bool
	input   inputProvider
	lookup  lookupFunc
	http    *http.Client
	client  *dns.Client
	servers []string
	whois   func(ip string) (string, error)
}
