package models

import (
	"fmt"
	"strconv"
	"strings"
)

const labelSuffix = " oikein"

// Hits is the number of matched primary and secondary numbers of one draw.
type Hits struct {
	Primary   int
	Secondary int
}

// Label renders hits in the published prize tier format, e.g. "2+1 oikein".
func (h Hits) Label() string {
	return fmt.Sprintf("%d+%d%s", h.Primary, h.Secondary, labelSuffix)
}

// ParseLabel is the inverse of Label.
func ParseLabel(label string) (Hits, error) {
	body, ok := strings.CutSuffix(label, labelSuffix)
	if !ok {
		return Hits{}, fmt.Errorf("label %q does not end in %q", label, labelSuffix)
	}
	p, s, ok := strings.Cut(body, "+")
	if !ok {
		return Hits{}, fmt.Errorf("label %q is not <primary>+<secondary>", label)
	}
	primary, err := strconv.Atoi(p)
	if err != nil || primary < 0 {
		return Hits{}, fmt.Errorf("label %q has invalid primary hits", label)
	}
	secondary, err := strconv.Atoi(s)
	if err != nil || secondary < 0 {
		return Hits{}, fmt.Errorf("label %q has invalid secondary hits", label)
	}
	return Hits{Primary: primary, Secondary: secondary}, nil
}
