package prompt

import (
	_ "embed"
	"strings"
	"time"
)

//go:embed template/system.txt
var systemRaw string

// System renders the assistant's system prompt for the given instant. The
// date and time are baked into the prompt so the model can resolve relative
// expressions like "tomorrow afternoon".
func System(now time.Time) string {
	s := strings.TrimSpace(systemRaw)
	s = strings.ReplaceAll(s, "{today}", now.Format("Monday, January 2, 2006"))
	s = strings.ReplaceAll(s, "{current_time}", now.Format("3:04 PM"))
	return s
}
