package rttrace

import (
	"fmt"
	"strings"

	"github.com/ESRTS/rttrace/internal/wire"
)

// FormatEvent renders one decoded event as the diagnostic log line shape
// from §6.3: a tab, the timestamp in milliseconds with microsecond
// precision, a tab, the event's canonical name, a colon, two spaces, and
// its key=value payload dump. The core never parses this output back; it
// exists only for a collaborating layer to print a human-readable log.
func FormatEvent(ev wire.Event) string {
	ms := float64(ev.TS) / 1000.0
	return fmt.Sprintf("\tts: %.3fms\t%s:  %s", ms, ev.Kind.String(), formatKV(ev.KV()))
}

func formatKV(kv []wire.KeyValue) string {
	parts := make([]string, len(kv))
	for i, pair := range kv {
		parts[i] = fmt.Sprintf("%s=%v", pair.Key, pair.Value)
	}
	return strings.Join(parts, " ")
}
