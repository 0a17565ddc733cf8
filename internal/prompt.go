package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	fieldIPv4     = "IPv4 address"
	fieldIPv6     = "IPv6 address"
	fieldCountry  = "country code (XX)"
	fieldProvince = "state/province code (XX)"
	fieldCity     = "city name (in full)"
	fieldName     = "Smokeping entry name"
	fieldISP      = "ISP / hosting provider"
)

// inputProvider supplies field values. ok is false when the field is
// absent: not pre-filled and nothing entered.
type inputProvider interface {
	get(field string) (value string, ok bool)
}

type prefilled struct {
	values map[string]string
	next   inputProvider
}

func (p *prefilled) get(field string) (string, bool) {
	if v := strings.TrimSpace(p.values[field]); v != "" {
		return v, true
	}
	if p.next == nil {
		return "", false
	}
	return p.next.get(field)
}

type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

func (p *linePrompter) get(field string) (string, bool) {
	fmt.Fprintf(p.out, "%s: ", field)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false
	}
	line = strings.TrimSpace(line)
	return line, line != ""
}

func (a *app) inputFor(o *options) inputProvider {
	return &prefilled{
		values: map[string]string{
			fieldCountry:  o.country,
			fieldProvince: o.province,
			fieldCity:     o.city,
			fieldName:     o.name,
			fieldISP:      o.isp,
		},
		next: a.input,
	}
}
