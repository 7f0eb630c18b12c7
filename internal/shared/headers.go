// Utilities for turning a copied browser cURL command into the headers
// file the ytmusicapi search proxy expects.
package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRe = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRe = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// BrowserHeaders represents headers and cookies extracted from a cURL command
// copied out of the browser's network inspector.
type BrowserHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a file containing a cURL command and extracts headers.
func ParseCurlFile(path string) (*BrowserHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts headers and the
// session cookie. The cookie may arrive either via -b or as a Cookie header.
func ParseCurlCommand(data []byte) (*BrowserHeaders, error) {
	cmd := string(data)
	cmd = strings.ReplaceAll(cmd, "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\", "")

	parsed := &BrowserHeaders{Headers: make(map[string]string)}

	for _, match := range curlHeaderRe.FindAllStringSubmatch(cmd, -1) {
		line := match[1]
		if line == "" {
			line = match[2]
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if strings.EqualFold(key, "cookie") {
			if parsed.Cookie == "" {
				parsed.Cookie = value
			}
			continue
		}
		parsed.Headers[key] = value
	}

	if m := curlCookieRe.FindStringSubmatch(cmd); m != nil {
		if m[1] != "" {
			parsed.Cookie = m[1]
		} else {
			parsed.Cookie = m[2]
		}
	}

	if len(parsed.Headers) == 0 && parsed.Cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return parsed, nil
}

// WriteHeadersFile writes the parsed headers as the JSON document ytmusicapi
// consumes (browser.json).
func (b *BrowserHeaders) WriteHeadersFile(path string) error {
	doc := make(map[string]string, len(b.Headers)+1)
	for key, value := range b.Headers {
		doc[key] = value
	}
	if b.Cookie != "" {
		doc["cookie"] = b.Cookie
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal headers: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write headers file: %w", err)
	}

	return nil
}
