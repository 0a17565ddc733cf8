package internal

import (
	"context"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/likexian/whois"
	"github.com/miekg/dns"
	"github.com/spf13/pflag"
)

func Execute(ctx context.Context, args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		printUsage(os.Stderr)
		return err
	}

	if opts.help {
		printUsage(os.Stdout)
		return nil
	}

	app := newApp(opts, os.Stdin, os.Stdout, os.Stderr)
	return app.run(ctx)
}

func parseArgs(args []string) (*options, error) {
	opts := &options{
		maxBytes: defaultMaxBytes,
		levels:   defaultLevels,
	}

	fs := pflag.NewFlagSet(program, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&opts.country, "country", "C", "", "country code")
	fs.StringVarP(&opts.province, "province", "p", "", "province/state code")
	fs.StringVarP(&opts.city, "city", "c", "", "city name")
	fs.StringVarP(&opts.name, "name", "n", "", "entry name")
	fs.StringVarP(&opts.isp, "isp", "i", "", "ISP / hosting provider")
	fs.BoolVarP(&opts.forceDNS, "force-dns", "d", false, "DNS only")
	fs.StringVar(&opts.dnsServer, "dnsserver", "", "DNS server")
	fs.IntVar(&opts.maxBytes, "maxsize", opts.maxBytes, "scrape budget")
	fs.IntVarP(&opts.levels, "levels", "l", opts.levels, "nesting level")
	fs.BoolVarP(&opts.whois, "whois", "w", false, "whois")
	fs.BoolVar(&opts.noColor, "nocolor", false, "no color")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose")
	fs.BoolVarP(&opts.help, "help", "h", false, "help")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	argv := fs.Args()
	if len(argv) > 1 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(argv[1:], " "))
	}
	if len(argv) == 1 {
		opts.url = argv[0]
	}

	if opts.maxBytes <= 0 {
		opts.maxBytes = defaultMaxBytes
	}
	if opts.levels < 0 {
		return nil, fmt.Errorf("%w: levels must not be negative", ErrInput)
	}

	return opts, nil
}

func newApp(opts *options, in io.Reader, out, errOut io.Writer) *app {
	a := &app{
		opts:    opts,
		log:     newLogger(errOut, opts.verbose),
		out:     out,
		colorOn: !opts.noColor,
		input:   newLinePrompter(in, out),
		lookup:  systemLookup,
		http:    newHTTPClient(),
		client:  new(dns.Client),
		whois: func(ip string) (string, error) {
			return whois.Whois(ip)
		},
	}

	cfg, err := loadResolver(opts.dnsServer)
	if err != nil {
		a.log.Warn("no resolver for ASN lookups", "err", err)
	} else {
		a.servers = serverList(cfg)
	}
	return a
}

func (a *app) header(text string) {
	if a.colorOn {
		fmt.Fprint(a.out, blue)
	}
	fmt.Fprintf(a.out, "\n%s\n", text)
	if a.colorOn {
		fmt.Fprint(a.out, reset)
	}
}

func (a *app) friendly(text string) {
	fmt.Fprintf(a.out, "%s\n", text)
}

func (a *app) warn(text string) {
	if a.colorOn {
		text = red + text + reset
	}
	a.friendly(text)
}

func (a *app) run(ctx context.Context) error {
	var (
		res   scrapeResult
		title string
		err   error
	)

	if a.opts.url != "" {
		res, title, err = a.discover(ctx)
	} else {
		res, err = a.manualAddresses()
	}
	if err != nil {
		return err
	}

	input := a.inputFor(a.opts)
	country, _ := input.get(fieldCountry)
	country = strings.ToUpper(country)

	var province, city string
	if needsProvince(country) {
		province, _ = input.get(fieldProvince)
	}
	if asksCity(country) {
		city, _ = input.get(fieldCity)
	}

	nameField := fieldName
	if a.opts.name == "" && title != "" {
		nameField = fmt.Sprintf("%s [%s]", fieldName, title)
	}
	name, ok := input.get(nameField)
	if !ok {
		name = title
	}
	isp, _ := input.get(fieldISP)

	e := entry{
		name:     name,
		isp:      isp,
		country:  country,
		province: province,
		city:     city,
	}

	type block struct {
		label string
		text  string
	}
	var blocks []block
	for _, fam := range []struct {
		label string
		c     *candidate
	}{
		{"IPv4:", res.ipv4},
		{"IPv6:", res.ipv6},
	} {
		if fam.c == nil {
			continue
		}
		e.address = fam.c.display
		text, err := formatEntry(e, a.opts.levels)
		if err != nil {
			return err
		}
		blocks = append(blocks, block{fam.label, text})
	}

	if a.opts.whois {
		for _, c := range []*candidate{res.ipv4, res.ipv6} {
			if c != nil && c.addr.IsValid() {
				a.whoisReport(c.addr)
			}
		}
	}

	for _, b := range blocks {
		a.header(b.label)
		fmt.Fprint(a.out, b.text)
	}
	return nil
}

func (a *app) discover(ctx context.Context) (scrapeResult, string, error) {
	target, host, err := normalizeURL(a.opts.url)
	if err != nil {
		return scrapeResult{}, "", err
	}

	addrs, err := a.resolveHost(ctx, host)
	if err != nil {
		return scrapeResult{}, "", err
	}

	if a.opts.forceDNS {
		res := dnsOnly(host, addrs)
		a.friendly("DNS IPs: " + res.String())
		return res, "", nil
	}

	pg, err := a.fetchPage(ctx, target)
	if err != nil {
		return scrapeResult{}, "", err
	}

	res, err := a.classify(ctx, host, addrs, pg)
	if err != nil {
		return scrapeResult{}, "", err
	}

	for _, c := range []*candidate{res.ipv4, res.ipv6} {
		if c == nil {
			continue
		}
		line := fmt.Sprintf("%s ASN info: %s", c.addr, c.asn)
		if c.asn.ok() {
			a.friendly(line)
		} else {
			a.warn(line)
		}
	}
	a.friendly("Scraped IPs: " + res.String())
	return res, pg.title, nil
}

func (a *app) manualAddresses() (scrapeResult, error) {
	var res scrapeResult

	if raw, ok := a.input.get(fieldIPv4); ok {
		addr, err := netip.ParseAddr(raw)
		if err != nil || !addr.Is4() {
			return res, fmt.Errorf("%w: %q is not an IPv4 address", ErrInput, raw)
		}
		res.ipv4 = &candidate{addr: addr, display: addr.String()}
	}

	if raw, ok := a.input.get(fieldIPv6); ok {
		addr, err := netip.ParseAddr(raw)
		if err != nil || !addr.Is6() || addr.Is4In6() {
			return res, fmt.Errorf("%w: %q is not an IPv6 address", ErrInput, raw)
		}
		res.ipv6 = &candidate{addr: addr, display: addr.String()}
	}

	if res.ipv4 == nil && res.ipv6 == nil {
		return res, fmt.Errorf("%w: no address given", ErrInput)
	}
	return res, nil
}

func (r scrapeResult) String() string {
	show := func(c *candidate) string {
		if c == nil {
			return "none"
		}
		return c.display
	}
	return show(r.ipv4) + ", " + show(r.ipv6)
}
