package plays

// Reason codes as they appear in the exported history. The exporter writes
// lowercase codes; comparisons are case-insensitive anyway because older
// exports used mixed case.
const (
	ReasonEndTrackDone = "trackdone"
	ReasonEndEndPlay   = "endplay"
	ReasonEndForward   = "fwdbtn"
	ReasonEndBack      = "backbtn"
)

// BarelyPlayedThresholdMs separates barely-played from partially-completed
// plays when no reason code decides the outcome.
const BarelyPlayedThresholdMs = 30_000
