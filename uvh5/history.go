package uvh5

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Version is the library version recorded in dataset histories.
const Version = "0.3.0"

// HistoryStamp returns the provenance line appended to histories.
func HistoryStamp() string {
	return "  Read/written with go-uvh5 version: " + Version + "."
}

// StampHistory appends HistoryStamp to history unless the stamp is already
// present. The check ignores whitespace, so stamping is idempotent even after
// a history has been rewrapped.
func StampHistory(history string) string {
	if strings.Contains(stripSpace(history), stripSpace(HistoryStamp())) {
		return history
	}
	return history + HistoryStamp()
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// fitHistory stamps history and trims it to the maxHistoryLen bytes a file
// holds. The body is shortened rather than the stamp, so a history read
// back from the file is still stamped exactly once. A stamp that was
// rewrapped cannot be located and is cut like any other text.
func fitHistory(history string) string {
	stamped := StampHistory(history)
	if len(stamped) <= maxHistoryLen {
		return stamped
	}
	stamp := HistoryStamp()
	body := history
	if i := strings.LastIndex(history, stamp); i >= 0 {
		body = history[:i] + history[i+len(stamp):]
	} else if stamped == history {
		return truncate(history, maxHistoryLen)
	}
	return truncate(body, maxHistoryLen-len(stamp)) + stamp
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
