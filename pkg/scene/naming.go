package scene

import (
	"regexp"
	"strconv"
)

// Names accepted for nodes created through a scene: letter or underscore
// first, then alphanumeric, underscore or dash. The document validator
// applies the same rule on load, so every name a scene assigns survives a
// save/load round trip.
var namePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_\-]*$`)

const maxNameLength = 100

func checkName(op, name string) error {
	if len(name) > maxNameLength || !namePattern.MatchString(name) {
		return NewError(op).Node(name).Cause(ErrInvalidName).Err()
	}
	return nil
}

// uniqueName derives a free name from baseName by scanning the flat index for
// names matching baseName followed by an optional decimal suffix. With no
// collision baseName is used unchanged; otherwise the highest suffix found is
// incremented ("item", "item1", "item2", ...).
func (s *Scene) uniqueName(baseName string) string {
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(baseName) + `(\d+)?$`)

	num := -1
	for name := range s.byName {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		suffix := 0
		if m[1] != "" {
			suffix, _ = strconv.Atoi(m[1])
		}
		if suffix > num {
			num = suffix
		}
	}

	if num == -1 {
		return baseName
	}
	return baseName + strconv.Itoa(num+1)
}
