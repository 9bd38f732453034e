package model

import "strings"

// AgentSnapshot holds the latest account identity and balance.
// It is replaced wholesale on every refresh, never patched field-by-field.
type AgentSnapshot struct {
	AccountID       string
	Symbol          string
	Headquarters    string
	Credits         int64
	StartingFaction string
	ShipCount       int
}

// SystemFromWaypoint extracts the system symbol from a waypoint symbol,
// e.g. "X1-DF55-20250Z" -> "X1-DF55".
func SystemFromWaypoint(waypoint string) string {
	parts := strings.Split(waypoint, "-")
	if len(parts) < 2 {
		return waypoint
	}
	return parts[0] + "-" + parts[1]
}
