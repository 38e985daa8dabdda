// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"net/url"
)

// MaxLinkURLLength is the maximum allowed length for a stored external link.
const MaxLinkURLLength = 2048

// ValidateLinkURL checks that rawURL is an absolute http(s) URL with a host.
func ValidateLinkURL(rawURL string) error {
	if len(rawURL) > MaxLinkURLLength {
		return fmt.Errorf("URL exceeds maximum length of %d characters", MaxLinkURLLength)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme")
	}
	if parsedURL.Hostname() == "" {
		return fmt.Errorf("URL must have a hostname")
	}
	return nil
}
