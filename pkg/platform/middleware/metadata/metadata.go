// Package metadata extracts client address and device information for logs
// and claim submissions.
package metadata

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/mssola/useragent"

	"github.com/martirspe/complaints-book-pro/pkg/requestcontext"
)

// MaxForwardedHeaderLength bounds X-Forwarded-For / X-Real-IP values.
const MaxForwardedHeaderLength = 500

// Config holds the proxies allowed to set forwarding headers.
// An empty list means forwarding headers are ignored.
type Config struct {
	TrustedProxies []netip.Prefix
}

// ParseTrustedProxies parses CIDR strings, skipping blanks.
func ParseTrustedProxies(cidrs []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(cidrs))
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		p, err := netip.ParsePrefix(c)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

type Middleware struct {
	trusted []netip.Prefix
}

func NewMiddleware(cfg *Config) *Middleware {
	m := &Middleware{}
	if cfg != nil {
		m.trusted = cfg.TrustedProxies
	}
	return m
}

// Handler stores client IP, User-Agent and a device display name in the context.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")
		ctx := requestcontext.WithClientMetadata(r.Context(), m.clientIP(r), ua)
		ctx = requestcontext.WithDevice(ctx, DeviceName(ua))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) clientIP(r *http.Request) string {
	remote := remoteIP(r.RemoteAddr)
	if remote == "" {
		return "unknown"
	}
	if !m.isTrusted(remote) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if len(xff) > MaxForwardedHeaderLength {
			return remote
		}
		first, _, _ := strings.Cut(xff, ",")
		first = strings.TrimSpace(first)
		if _, err := netip.ParseAddr(first); err != nil {
			return remote
		}
		return first
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" && len(xri) <= MaxForwardedHeaderLength {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}
	return remote
}

func (m *Middleware) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, p := range m.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteIP(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return strings.Trim(remoteAddr, "[]")
	}
	return host
}

// DeviceName renders a User-Agent as "Browser on OS", e.g. "Chrome on Android".
func DeviceName(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown Device"
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OS()
	if ua.Mobile() && ua.Platform() != "" {
		os = ua.Platform()
	}
	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
