package musicbrainz

// mapTrackInfo normalizes a recording detail into a TrackInfo, splitting
// relation data into vocals, arrangers, mixers and alternate versions.
func mapTrackInfo(detail *RecordingDetail, coverArt string) *TrackInfo {
	info := &TrackInfo{
		ID:               detail.ID,
		Title:            detail.Title,
		Length:           detail.Length,
		FirstReleaseDate: detail.FirstReleaseDate,
		CoverArt:         coverArt,
	}
	if len(detail.ArtistCredit) > 0 {
		info.Artist = detail.ArtistCredit[0].Name
	}

	for _, relation := range detail.Relations {
		switch relation.Type {
		case "vocal":
			if relation.Artist != nil {
				info.Vocals = append(info.Vocals, ArtistInfo{
					Name:     relation.Artist.Name,
					SortName: relation.Artist.SortName,
					Type:     relation.Artist.Type,
				})
			}
		case "arranger":
			if relation.Artist != nil {
				info.Arrangers = append(info.Arrangers, relation.Artist.Name)
			}
		case "mix":
			if relation.Artist != nil {
				info.Mixers = append(info.Mixers, relation.Artist.Name)
			}
		case "edit", "karaoke", "music video":
			if relation.Recording != nil {
				info.Versions = append(info.Versions, Version{
					Title:  relation.Recording.Title,
					Length: relation.Recording.Length,
					Type:   relation.Type,
					Video:  relation.Recording.Video,
				})
			}
		}
	}
	return info
}
