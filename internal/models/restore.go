package models

import "strings"

// RestoreStatus is the parsed state of an archived object's temporary copy
type RestoreStatus int

const (
	RestoreNotRequested RestoreStatus = iota
	RestoreInProgress
	RestoreCompleted
)

func (s RestoreStatus) String() string {
	switch s {
	case RestoreInProgress:
		return "in-progress"
	case RestoreCompleted:
		return "completed"
	default:
		return "not-requested"
	}
}

// ParseRestoreStatus parses an x-amz-restore header value such as
//
//	ongoing-request="false", expiry-date="Fri, 21 Dec 2012 00:00:00 GMT"
//
// Only an explicit ongoing-request of false counts as completed. Anything
// empty, malformed or unrecognised is RestoreNotRequested.
func ParseRestoreStatus(raw string) RestoreStatus {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RestoreNotRequested
	}

	ongoing, ok := restoreAttributes(raw)["ongoing-request"]
	if !ok {
		return RestoreNotRequested
	}

	switch ongoing {
	case "true":
		return RestoreInProgress
	case "false":
		return RestoreCompleted
	default:
		return RestoreNotRequested
	}
}

// restoreAttributes splits the header into key/value pairs.
// The expiry date contains a comma, so values are read up to the closing quote.
func restoreAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	rest := raw
	for rest != "" {
		rest = strings.TrimLeft(rest, " ,")
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 {
			break
		}
		key := strings.ToLower(strings.TrimSpace(rest[:eq]))
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				// unterminated quote: drop the attribute
				break
			}
			value = rest[1 : end+1]
			rest = rest[end+2:]
		} else {
			end := strings.IndexByte(rest, ',')
			if end < 0 {
				end = len(rest)
			}
			value = strings.TrimSpace(rest[:end])
			rest = rest[end:]
		}
		attrs[key] = strings.ToLower(value)
	}
	return attrs
}
