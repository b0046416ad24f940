// Package pinkey builds the composite keys the editor uses to address pins.
//
// A key is "<type>-<normalized name>". The same rule must be used everywhere a
// pin is rendered, otherwise edges will not attach to their handles.
package pinkey

import (
	"regexp"
	"strings"

	"github.com/noder-app/noder-backend/internal/blueprint/domain"
)

var rxNonKey = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Normalize lower-cases name and collapses every run of whitespace or
// characters outside [A-Za-z0-9_-] into a single hyphen.
func Normalize(name string) string {
	return strings.ToLower(rxNonKey.ReplaceAllString(name, "-"))
}

func Key(t domain.PinType, name string) string {
	return string(t) + "-" + Normalize(name)
}

// Split reverses Key as far as possible: it returns the type prefix and the
// normalized name. Names are not restored to their original spelling.
func Split(key string) (domain.PinType, string) {
	t, name, found := strings.Cut(key, "-")
	if !found {
		return domain.PinType(key), ""
	}
	return domain.PinType(t), name
}

// Find returns the index of the pin called name. Exact names win; the
// normalized form is only consulted when no pin matches exactly, so a name
// recovered by Split still resolves. Two pins that normalize equally on the
// same node cannot be told apart that way and the first one is returned.
func Find(pins []domain.PinSpec, name string) int {
	for i := range pins {
		if pins[i].Name == name {
			return i
		}
	}
	want := Normalize(name)
	for i := range pins {
		if Normalize(pins[i].Name) == want {
			return i
		}
	}
	return -1
}
