// Package service holds the flows sitting between the HTTP handlers
// and the external stores
package service

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// IPFallback is returned when neither headers nor the echo services
// produce an address. Mostly seen during local development.
const IPFallback = "local-development"

// IPResolver figures out the requesting client's public address. The
// result scopes the "my files" listing and nothing else; headers are
// trivially spoofable on direct requests, so this must never be
// treated as authentication.
type IPResolver struct {
	Client *http.Client
	// Echo services tried in order when headers are absent or loopback
	LookupURLs []string
}

func NewIPResolver() *IPResolver {
	return &IPResolver{
		Client: &http.Client{Timeout: 3 * time.Second},
		LookupURLs: []string{
			"https://api.ipify.org?format=json",
			"https://ipinfo.io/json",
		},
	}
}

// Resolve walks the proxy headers first and falls back to the external
// echo services. Every outcome is usable, the worst case being the
// IPFallback sentinel.
func (r *IPResolver) Resolve(req *http.Request) string {
	ip := headerIP(req)
	if usable(ip) {
		return ip
	}

	for _, u := range r.LookupURLs {
		ip, err := r.lookup(u)
		if err != nil {
			zap.L().Warn("IP lookup service failed", zap.String("url", u), zap.Error(err))
			continue
		}

		if usable(ip) {
			return ip
		}
	}

	return IPFallback
}

func headerIP(req *http.Request) string {
	if v := req.Header.Get("X-Forwarded-For"); v != "" {
		first, _, _ := strings.Cut(v, ",")
		return strings.TrimSpace(first)
	}

	if v := req.Header.Get("X-Real-Ip"); v != "" {
		return v
	}

	return req.Header.Get("CF-Connecting-Ip")
}

func usable(ip string) bool {
	switch ip {
	case "", "127.0.0.1", "::1", "localhost":
		return false
	}
	return true
}

func (r *IPResolver) lookup(url string) (string, error) {
	resp, err := r.Client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		IP string `json:"ip"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	return body.IP, nil
}
