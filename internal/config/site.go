package config

import (
	"net/url"
	"strings"
)

type Site struct {
	Name          string
	LoginURL      string
	DashboardHost string
	LoginPath     string
}

var Honeygain = Site{
	Name:          "Honeygain",
	LoginURL:      "https://dashboard.honeygain.com/login",
	DashboardHost: "dashboard.honeygain.com",
	LoginPath:     "/login",
}

// IsAuthenticatedURL reports whether raw is a dashboard page other than the login form.
func (s Site) IsAuthenticatedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Hostname(), s.DashboardHost) {
		return false
	}
	path := strings.TrimRight(u.Path, "/")
	return !strings.EqualFold(path, strings.TrimRight(s.LoginPath, "/"))
}
