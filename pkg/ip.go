package pkg

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

var (
	localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1$`)
)

func IPIsLocal(ip string) bool {
	if ip == "127.0.0.1" || ip == "::1" {
		return true
	}
	// requests coming from within docker network
	return localDockerIpRegex.MatchString(ip)
}

// ReadUserIP returns the client IP, honoring the reverse proxy headers.
// Local addresses are all reported as "localhost".
func ReadUserIP(r *http.Request) (string, error) {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		// X-Forwarded-For: client, proxy1, proxy2
		ipAddr = strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-For"), ",")[0])
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}

	ip := net.ParseIP(ipAddr)
	if ip == nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}

	if IPIsLocal(ipAddr) {
		return "localhost", nil
	}

	return ip.String(), nil
}
