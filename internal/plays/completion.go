package plays

import "strings"

// Completion classifies how fully a single play was consumed. The rules are
// evaluated in order:
//
//  1. an explicit skip flag wins regardless of duration,
//  2. a natural end-reason (trackdone, endplay) means completed,
//  3. a manual skip-reason (fwdbtn, backbtn) means partially completed,
//  4. less than 30 seconds of playback means barely played,
//  5. anything else is partially completed.
//
// It is a pure classification; nothing is persisted.
func Completion(skipped bool, reasonEnd string, msPlayed int) CompletionStatus {
	if skipped {
		return CompletionSkipped
	}

	switch strings.ToLower(reasonEnd) {
	case ReasonEndTrackDone, ReasonEndEndPlay:
		return CompletionCompleted
	case ReasonEndForward, ReasonEndBack:
		return CompletionPartial
	}

	if msPlayed < BarelyPlayedThresholdMs {
		return CompletionBarely
	}
	return CompletionPartial
}

// CompletionStatus classifies this event; see Completion.
func (e *PlayEvent) Completion() CompletionStatus {
	return Completion(e.Skipped, e.ReasonEnd, e.MsPlayed)
}
