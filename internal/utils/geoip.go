package utils

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"
)

// Locator resolves an IP address to a human readable place. An empty label
// with a nil error means the address is not locatable (private ranges etc).
type Locator interface {
	Locate(ctx context.Context, ip string) (string, error)
}

type NoopLocator struct{}

func (NoopLocator) Locate(context.Context, string) (string, error) { return "", nil }

// GeoIP reads a MaxMind City database.
type GeoIP struct {
	reader *geoip2.Reader
	langs  []string
}

func OpenGeoIP(path string) (*GeoIP, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %s: %w", path, err)
	}
	return &GeoIP{reader: reader, langs: []string{"zh-CN", "en"}}, nil
}

func (g *GeoIP) Close() error {
	return g.reader.Close()
}

func (g *GeoIP) name(names map[string]string) string {
	for _, lang := range g.langs {
		if n := names[lang]; n != "" {
			return n
		}
	}
	return ""
}

func (g *GeoIP) Locate(_ context.Context, ip string) (string, error) {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "", fmt.Errorf("invalid ip %q", ip)
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return "", nil
	}

	record, err := g.reader.City(parsed)
	if err != nil {
		return "", err
	}

	var parts []string
	add := func(s string) {
		if s != "" && (len(parts) == 0 || parts[len(parts)-1] != s) {
			parts = append(parts, s)
		}
	}
	add(g.name(record.Country.Names))
	if len(record.Subdivisions) > 0 {
		add(g.name(record.Subdivisions[0].Names))
	}
	add(g.name(record.City.Names))
	return strings.Join(parts, " "), nil
}

// BoundedLocator caches lookups and gives each one at most timeout.
type BoundedLocator struct {
	next    Locator
	cache   *TTLCache[string]
	timeout time.Duration
}

func NewBoundedLocator(next Locator, timeout time.Duration) (*BoundedLocator, error) {
	cache, err := NewTTLCache[string](1024, 24*time.Hour)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 300 * time.Millisecond
	}
	return &BoundedLocator{next: next, cache: cache, timeout: timeout}, nil
}

func (b *BoundedLocator) Locate(ctx context.Context, ip string) (string, error) {
	if label, ok := b.cache.Get(ip); ok {
		return label, nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type result struct {
		label string
		err   error
	}
	done := make(chan result, 1)
	go func() {
		label, err := b.next.Locate(ctx, ip)
		done <- result{label, err}
	}()

	select {
	case r := <-done:
		if r.err == nil {
			b.cache.Set(ip, r.label)
		}
		return r.label, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
