package internal

import (
	"fmt"
	"io"
)

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `%s VERSION:%s
Usage: %s [Options] [url]
Without a url, IPv4/IPv6 addresses are asked for interactively.
GENERAL:
  -h, --help             Print this help.
  -v, --verbose          Debug logging on stderr.
  --nocolor              Disable color output.
DISCOVERY:
  -d, --force-dns        Use DNS only instead of scraping the page.
  --maxsize <bytes>      Max page bytes to scan (default: %d).
  --dnsserver <server>   DNS server for ASN lookups.
  -w, --whois            Print the whois netrange of found addresses.
ENTRY:
  -C, --country <code>   Country code.
  -p, --province <code>  Province/state code (US, CA only).
  -c, --city <name>      City name.
  -n, --name <name>      Entry name.
  -i, --isp <name>       ISP / hosting provider.
  -l, --levels <count>   Entry nesting level (default: %d).
`, program, version, program, defaultMaxBytes, defaultLevels)
}
