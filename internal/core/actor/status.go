package actor

import "strings"

// StatusType is a bitmask controlling whether an actor (or a manager) is drawn
// and updated. Values match the media flags used by the scene files.
type StatusType uint8

const (
	StatusDrawn   StatusType = 1 << iota // 1
	StatusUpdated                        // 2
	StatusPlay                           // 4
	StatusPause                          // 8
	StatusStop                           // 16
	StatusReset                          // 32

	StatusOff StatusType = 0
)

var statusNames = []struct {
	flag StatusType
	name string
}{
	{StatusDrawn, "drawn"},
	{StatusUpdated, "updated"},
	{StatusPlay, "play"},
	{StatusPause, "pause"},
	{StatusStop, "stop"},
	{StatusReset, "reset"},
}

// Has reports whether every bit of f is set.
func (s StatusType) Has(f StatusType) bool { return s&f == f }

func (s StatusType) String() string {
	if s == StatusOff {
		return "off"
	}
	parts := make([]string, 0, 2)
	for _, n := range statusNames {
		if s&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseStatus accepts names joined by '|' (e.g. "drawn|updated") and returns
// false on an unknown name.
func ParseStatus(s string) (StatusType, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "off" {
		return StatusOff, true
	}
	var out StatusType
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		found := false
		for _, n := range statusNames {
			if n.name == part {
				out |= n.flag
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return out, true
}
