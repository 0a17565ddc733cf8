package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var (
	ip4Pattern = regexp.MustCompile(
		`((25[0-5]|(2[0-4]|1\d|[1-9]|)\d)\.?\b){4}`,
	)
	// Loose on purpose: anything hex-ish with a colon. Candidates are
	// parsed strictly later and the misses skipped.
	ip6Pattern = regexp.MustCompile(`[a-fA-F0-9]{1,4}:[a-fA-F0-9:]+`)
)

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: fetchTimeout,
	}
}

func (a *app) fetchPage(ctx context.Context, rawURL string) (*page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrNetwork, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf(
			"%w: fetch %s: %s",
			ErrNetwork,
			rawURL,
			resp.Status,
		)
	}

	if v := resp.Header.Get("Content-Length"); v != "" {
		size, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err == nil && size > int64(a.opts.maxBytes) {
			return nil, fmt.Errorf(
				"%w: %w (%d > %d)",
				ErrNetwork,
				ErrTooLarge,
				size,
				a.opts.maxBytes,
			)
		}
	}

	text, err := readBounded(resp.Body, a.opts.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrNetwork, rawURL, err)
	}
	a.log.Debug(
		"fetched page",
		"url", rawURL,
		"status", resp.StatusCode,
		"chars", utf8.RuneCountInString(text),
	)

	return &page{text: text, title: pageTitle(text)}, nil
}

// readBounded reads chunks of at most limit bytes and stops once the
// decoded text grows past limit characters. Invalid UTF-8 is dropped.
func readBounded(r io.Reader, limit int) (string, error) {
	if limit < 1 {
		limit = defaultMaxBytes
	}

	var b strings.Builder
	buf := make([]byte, limit)
	total := 0

	for total <= limit {
		n, err := r.Read(buf)
		if n > 0 {
			text := strings.ToValidUTF8(string(buf[:n]), "")
			total += utf8.RuneCountInString(text)
			b.WriteString(text)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func pageTitle(text string) string {
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) != "title" {
				continue
			}
			if z.Next() == html.TextToken {
				return strings.Join(strings.Fields(string(z.Text())), " ")
			}
			return ""
		}
	}
}

func ip4Candidates(text string) []string {
	return ip4Pattern.FindAllString(text, -1)
}

func ip6Candidates(text string) []string {
	return ip6Pattern.FindAllString(text, -1)
}
