package internal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

type countingBody struct {
	r      io.Reader
	reads  int
	closed bool
}

func (b *countingBody) Read(p []byte) (int, error) {
	b.reads++
	return b.r.Read(p)
}

func (b *countingBody) Close() error {
	b.closed = true
	return nil
}

type stubTransport struct {
	resp   *http.Response
	accept string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.accept = req.Header.Get("Accept")
	s.resp.Request = req
	return s.resp, nil
}

func TestFetchPageContentLengthTooLarge(t *testing.T) {
	a, _ := testApp(t, "")
	a.opts.maxBytes = 1024

	body := &countingBody{r: strings.NewReader(strings.Repeat("8.8.8.8 ", 1000))}
	tr := &stubTransport{resp: &http.Response{
		StatusCode:    http.StatusOK,
		Status:        "200 OK",
		Header:        http.Header{"Content-Length": []string{"8000"}},
		ContentLength: 8000,
		Body:          body,
	}}
	a.http = &http.Client{Transport: tr, Timeout: fetchTimeout}

	_, err := a.fetchPage(context.Background(), "http://example.test/")
	if !errors.Is(err, ErrTooLarge) || !errors.Is(err, ErrNetwork) {
		t.Fatalf("fetchPage() error = %v, want ErrTooLarge", err)
	}
	if body.reads != 0 {
		t.Fatalf("body read %d times, want 0", body.reads)
	}
	if !body.closed {
		t.Fatalf("body not closed")
	}
	if tr.accept != acceptHeader {
		t.Fatalf("Accept = %q, want %q", tr.accept, acceptHeader)
	}
}

func TestFetchPageStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	a, _ := testApp(t, "")
	a.http = srv.Client()

	_, err := a.fetchPage(context.Background(), srv.URL)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("fetchPage() error = %v, want ErrNetwork", err)
	}
}

func TestFetchPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != acceptHeader {
			http.Error(w, "bad accept", http.StatusNotAcceptable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html><head><title>  Looking\n Glass </title></head>"+
			"<body>IPv4: 8.8.4.4<br>IPv6: 2001:4860:4860::8844</body></html>")
	}))
	defer srv.Close()

	a, _ := testApp(t, "")
	a.http = srv.Client()

	pg, err := a.fetchPage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetchPage() error = %v", err)
	}
	if pg.title != "Looking Glass" {
		t.Fatalf("title = %q, want %q", pg.title, "Looking Glass")
	}
	if got := ip4Candidates(pg.text); !reflect.DeepEqual(got, []string{"8.8.4.4"}) {
		t.Fatalf("ip4Candidates() = %v", got)
	}
	if got := ip6Candidates(pg.text); !reflect.DeepEqual(got, []string{"2001:4860:4860::8844"}) {
		t.Fatalf("ip6Candidates() = %v", got)
	}
}

func TestReadBoundedStopsPastLimit(t *testing.T) {
	r := strings.NewReader(strings.Repeat("a", 200000))

	text, err := readBounded(r, 1000)
	if err != nil {
		t.Fatalf("readBounded() error = %v", err)
	}
	if len(text) <= 1000 || len(text) > 2000 {
		t.Fatalf("readBounded() read %d chars, want (1000, 2000]", len(text))
	}
}

func TestReadBoundedDropsInvalidUTF8(t *testing.T) {
	text, err := readBounded(strings.NewReader("1.2\xff.3.4 \xc3\xa9"), 64)
	if err != nil {
		t.Fatalf("readBounded() error = %v", err)
	}
	if text != "1.2.3.4 é" {
		t.Fatalf("readBounded() = %q", text)
	}
}

func TestIPCandidates(t *testing.T) {
	text := "at 12:30:45 from 10.0.0.1 via 203.0.113.9, fe80::1%eth0 and 2a00:1450:4001::200e."

	if got, want := ip4Candidates(text), []string{"10.0.0.1", "203.0.113.9"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ip4Candidates() = %v, want %v", got, want)
	}

	want6 := []string{"12:30:45", "fe80::1", "2a00:1450:4001::200e"}
	if got := ip6Candidates(text); !reflect.DeepEqual(got, want6) {
		t.Fatalf("ip6Candidates() = %v, want %v", got, want6)
	}
}

func TestPageTitleMissing(t *testing.T) {
	if got := pageTitle("plain 1.2.3.4"); got != "" {
		t.Fatalf("pageTitle() = %q, want empty", got)
	}
}
