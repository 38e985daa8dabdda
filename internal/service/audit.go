// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"log/slog"

	"github.com/mileusna/useragent"

	"github.com/nukgsz/schoolsite/internal/geoip"
)

// Device classes reported by LoginAuditor.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
)

// ClientInfo describes the client behind an authentication request.
type ClientInfo struct {
	IP      string
	Country string
	Browser string
	OS      string
	Device  string
}

// LogValue groups the client fields under one log attribute.
func (c ClientInfo) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("ip", c.IP)}
	if c.Country != "" {
		attrs = append(attrs, slog.String("country", c.Country))
	}
	return slog.GroupValue(append(attrs,
		slog.String("browser", c.Browser),
		slog.String("os", c.OS),
		slog.String("device", c.Device),
	)...)
}

// LoginAuditor derives client details for login and lockout log records.
type LoginAuditor struct {
	geo *geoip.Lookup
}

// NewLoginAuditor creates a LoginAuditor. geo may be nil.
func NewLoginAuditor(geo *geoip.Lookup) *LoginAuditor {
	return &LoginAuditor{geo: geo}
}

// Client parses the user agent and resolves the country of ip.
func (a *LoginAuditor) Client(ip, userAgent string) ClientInfo {
	ua := useragent.Parse(userAgent)
	info := ClientInfo{
		IP:      ip,
		Browser: ua.Name,
		OS:      ua.OS,
	}
	if info.Browser == "" {
		info.Browser = "Unknown"
	}
	if info.OS == "" {
		info.OS = "Unknown"
	}

	switch {
	case ua.Bot:
		info.Device = DeviceBot
	case ua.Tablet:
		info.Device = DeviceTablet
	case ua.Mobile:
		info.Device = DeviceMobile
	default:
		info.Device = DeviceDesktop
	}

	if a != nil && a.geo != nil {
		info.Country = a.geo.Country(ip)
	}
	return info
}
