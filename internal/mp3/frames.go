package mp3

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// textFrameKeys maps ID3v2.4 text frames to property keys.
var textFrameKeys = map[string]string{
	"TALB": "ALBUM",
	"TBPM": "BPM",
	"TCOM": "COMPOSER",
	"TCON": "GENRE",
	"TCOP": "COPYRIGHT",
	"TDEN": "ENCODINGTIME",
	"TDLY": "PLAYLISTDELAY",
	"TDOR": "ORIGINALDATE",
	"TDRC": "DATE",
	"TDRL": "RELEASEDATE",
	"TDTG": "TAGGINGDATE",
	"TENC": "ENCODEDBY",
	"TEXT": "LYRICIST",
	"TFLT": "FILETYPE",
	"TIT1": "WORK",
	"TIT2": "TITLE",
	"TIT3": "SUBTITLE",
	"TKEY": "INITIALKEY",
	"TLAN": "LANGUAGE",
	"TLEN": "LENGTH",
	"TMED": "MEDIA",
	"TMOO": "MOOD",
	"TOAL": "ORIGINALALBUM",
	"TOFN": "ORIGINALFILENAME",
	"TOLY": "ORIGINALLYRICIST",
	"TOPE": "ORIGINALARTIST",
	"TOWN": "OWNER",
	"TPE1": "ARTIST",
	"TPE2": "ALBUMARTIST",
	"TPE3": "CONDUCTOR",
	"TPE4": "REMIXER",
	"TPOS": "DISCNUMBER",
	"TPRO": "PRODUCEDNOTICE",
	"TPUB": "LABEL",
	"TRCK": "TRACKNUMBER",
	"TRSN": "RADIOSTATION",
	"TRSO": "RADIOSTATIONOWNER",
	"TSOA": "ALBUMSORT",
	"TSOC": "COMPOSERSORT",
	"TSOP": "ARTISTSORT",
	"TSOT": "TITLESORT",
	"TSO2": "ALBUMARTISTSORT",
	"TSRC": "ISRC",
	"TSSE": "ENCODING",
	"TSST": "DISCSUBTITLE",

	// iTunes extensions
	"TCAT": "PODCASTCATEGORY",
	"TDES": "PODCASTDESC",
	"TGID": "PODCASTID",
	"TCMP": "COMPILATION",
	"GRP1": "GROUPING",
	"MVNM": "MOVEMENTNAME",
	"MVIN": "MOVEMENTNUMBER",
}

// v23TextFrames are ID3v2.3 frames that carry the value of a v2.4 frame.
var v23TextFrames = map[string]string{
	"TYER": "TDRC",
	"TORY": "TDOR",
}

// urlFrameKeys maps URL link frames to property keys.
var urlFrameKeys = map[string]string{
	"WCOP": "COPYRIGHTURL",
	"WOAF": "FILEWEBPAGE",
	"WOAR": "ARTISTWEBPAGE",
	"WOAS": "AUDIOSOURCEWEBPAGE",
	"WORS": "RADIOSTATIONWEBPAGE",
	"WPAY": "PAYMENTWEBPAGE",
	"WPUB": "PUBLISHERWEBPAGE",
	"WFED": "PODCASTURL",
}

// txxxKeys maps TXXX descriptions (upper case) to property keys.
var txxxKeys = map[string]string{
	"MUSICBRAINZ ALBUM ID":              "MUSICBRAINZ_ALBUMID",
	"MUSICBRAINZ ARTIST ID":             "MUSICBRAINZ_ARTISTID",
	"MUSICBRAINZ ALBUM ARTIST ID":       "MUSICBRAINZ_ALBUMARTISTID",
	"MUSICBRAINZ ALBUM RELEASE COUNTRY": "RELEASECOUNTRY",
	"MUSICBRAINZ ALBUM STATUS":          "RELEASESTATUS",
	"MUSICBRAINZ ALBUM TYPE":            "RELEASETYPE",
	"MUSICBRAINZ RELEASE GROUP ID":      "MUSICBRAINZ_RELEASEGROUPID",
	"MUSICBRAINZ RELEASE TRACK ID":      "MUSICBRAINZ_RELEASETRACKID",
	"MUSICBRAINZ WORK ID":               "MUSICBRAINZ_WORKID",
	"ACOUSTID ID":                       "ACOUSTID_ID",
	"ACOUSTID FINGERPRINT":              "ACOUSTID_FINGERPRINT",
	"MUSICIP PUID":                      "MUSICIP_PUID",
}

// txxxDescriptions is the spelling written for keys in txxxKeys.
var txxxDescriptions = map[string]string{
	"MUSICBRAINZ_ALBUMID":        "MusicBrainz Album Id",
	"MUSICBRAINZ_ARTISTID":       "MusicBrainz Artist Id",
	"MUSICBRAINZ_ALBUMARTISTID":  "MusicBrainz Album Artist Id",
	"RELEASECOUNTRY":             "MusicBrainz Album Release Country",
	"RELEASESTATUS":              "MusicBrainz Album Status",
	"RELEASETYPE":                "MusicBrainz Album Type",
	"MUSICBRAINZ_RELEASEGROUPID": "MusicBrainz Release Group Id",
	"MUSICBRAINZ_RELEASETRACKID": "MusicBrainz Release Track Id",
	"MUSICBRAINZ_WORKID":         "MusicBrainz Work Id",
	"ACOUSTID_ID":                "Acoustid Id",
	"ACOUSTID_FINGERPRINT":       "Acoustid Fingerprint",
	"MUSICIP_PUID":               "MusicIP PUID",
}

// involvedPeopleRoles maps TIPL roles (lower case) to property keys.
var involvedPeopleRoles = map[string]string{
	"arranger": "ARRANGER",
	"engineer": "ENGINEER",
	"producer": "PRODUCER",
	"dj-mix":   "DJMIXER",
	"mix":      "MIXER",
}

// involvedPeopleKeys is the reverse of involvedPeopleRoles.
var involvedPeopleKeys = map[string]string{
	"ARRANGER": "arranger",
	"ENGINEER": "engineer",
	"PRODUCER": "producer",
	"DJMIXER":  "DJ-mix",
	"MIXER":    "mix",
}

const (
	// musicBrainzOwner is the UFID owner carrying the recording ID
	musicBrainzOwner = "http://musicbrainz.org"

	keyComment        = "COMMENT"
	keyLyrics         = "LYRICS"
	keyURL            = "URL"
	keyPerformer      = "PERFORMER"
	keyMusicBrainzRec = "MUSICBRAINZ_TRACKID"
)

// keyFrames is the reverse of textFrameKeys and urlFrameKeys.
var keyFrames = func() map[string]string {
	m := make(map[string]string, len(textFrameKeys)+len(urlFrameKeys))
	for id, key := range textFrameKeys {
		m[key] = id
	}
	for id, key := range urlFrameKeys {
		m[key] = id
	}
	return m
}()

// managedFrames lists every frame the property map owns. They are removed
// before a property write; anything else in the tag is left alone.
var managedFrames = func() []string {
	ids := []string{"TXXX", "COMM", "USLT", "WXXX", "TIPL", "TMCL", "IPLS", "TDAT", "TIME", "TRDA"}
	ids = append(ids, slices.Collect(maps.Keys(textFrameKeys))...)
	ids = append(ids, slices.Collect(maps.Keys(urlFrameKeys))...)
	ids = append(ids, slices.Collect(maps.Keys(v23TextFrames))...)
	slices.Sort(ids)
	return ids
}()

// describedKey builds "KEY" or "KEY:description".
func describedKey(key, description string) string {
	if description == "" {
		return key
	}
	return key + ":" + description
}

// splitDescribedKey reports whether key is base or base:description and
// returns the description.
func splitDescribedKey(key, base string) (description string, ok bool) {
	if key == base {
		return "", true
	}
	if rest, found := strings.CutPrefix(key, base+":"); found {
		return rest, true
	}
	return "", false
}

// splitValues splits a null-separated frame string. A trailing terminator
// does not produce an empty value.
func splitValues(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\x00"), "\x00")
}

// resolveGenre expands ID3v1 genre references: "17", "(17)", "(17)Rock",
// and the "RX"/"CR" shorthands.
func resolveGenre(value string) string {
	switch value {
	case "RX":
		return "Remix"
	case "CR":
		return "Cover"
	}
	if strings.HasPrefix(value, "(") {
		if end := strings.IndexByte(value, ')'); end > 1 {
			if rest := value[end+1:]; rest != "" {
				return rest
			}
			value = value[1:end]
		}
	}
	if n, err := strconv.Atoi(value); err == nil {
		if name, ok := genreName(n); ok {
			return name
		}
	}
	return value
}
