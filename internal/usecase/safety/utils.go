package safety

import (
	"math"
	"time"
)

// timestampLayout is the wire and storage format for every timestamp in the
// system: UTC, second precision, fixed width so text comparison orders
// chronologically.
const timestampLayout = "2006-01-02 15:04:05"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func startOfDay(t time.Time) string {
	return t.UTC().Format("2006-01-02") + " 00:00:00"
}

// hourLabel extracts the "HH:00" bucket label from a stored timestamp.
func hourLabel(timestamp string) (string, bool) {
	if len(timestamp) < 13 {
		return "", false
	}
	return timestamp[11:13] + ":00", true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
