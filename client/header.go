package client

import (
	"fmt"
	"net/http"
	"strings"
)

// ParseHeaderLines converts "Name: value" lines into an http.Header.
// Repeated names accumulate values.
func ParseHeaderLines(lines []string) (http.Header, error) {
	h := make(http.Header, len(lines))
	for _, l := range lines {
		i := strings.IndexByte(l, ':')
		if i <= 0 {
			return nil, newConfigurationError(fmt.Sprintf("malformed header line %q", l), "", "")
		}

		name := strings.TrimSpace(l[:i])
		if name == "" || strings.ContainsAny(name, " \t") {
			return nil, newConfigurationError(fmt.Sprintf("malformed header name in %q", l), "", "")
		}

		h.Add(name, strings.TrimSpace(l[i+1:]))
	}

	return h, nil
}
