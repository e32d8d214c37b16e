package email

import (
	"regexp"
	"strings"
)

var pattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate reports whether addr looks like local@domain.tld.
func Validate(addr string) bool {
	if strings.TrimSpace(addr) == "" {
		return false
	}
	return pattern.MatchString(addr)
}
