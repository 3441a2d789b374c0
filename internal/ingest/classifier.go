package ingest

import "replayed/internal/plays"

// ClassifyContent maps one raw record to a content type. Checks run in
// priority order and the first hit wins: audiobook fields, then podcast
// fields, then track fields. A record carrying none of them is unknown.
//
// Always returns a value; there is no failure mode.
func ClassifyContent(rec *RawPlayRecord) plays.ContentType {
	if rec.AudiobookTitle != "" || rec.AudiobookURI != "" || rec.AudiobookChapterURI != "" {
		return plays.ContentTypeAudiobook
	}
	if rec.EpisodeName != "" || rec.ShowName != "" || rec.EpisodeURI != "" {
		return plays.ContentTypePodcast
	}
	if rec.TrackURI != "" || rec.TrackName != "" {
		return plays.ContentTypeAudio
	}
	return plays.ContentTypeUnknown
}
