// Package timeparse turns user-supplied due-time text into a timezone-aware
// instant. It accepts RFC 3339 and a few common layouts, falling back to
// natural-language phrases ("tomorrow at 10am") for anything else.
package timeparse

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Layouts without a zone are interpreted in the configured timezone.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse resolves value into an instant normalized to loc. now anchors
// relative phrases such as "in 20 minutes".
func Parse(value string, now time.Time, loc *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty time value")
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(trimmed, now.In(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", value, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("unrecognized time value %q", value)
	}
	return result.Time.In(loc), nil
}
