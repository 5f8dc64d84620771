package audiotag

// Canonical property keys. Every backend translates its native fields to
// and from these names; keys outside this list pass through verbatim where
// the format can hold them.
const (
	KeyAlbum               = "ALBUM"
	KeyBPM                 = "BPM"
	KeyComposer            = "COMPOSER"
	KeyGenre               = "GENRE"
	KeyCopyright           = "COPYRIGHT"
	KeyEncodingTime        = "ENCODINGTIME"
	KeyPlaylistDelay       = "PLAYLISTDELAY"
	KeyOriginalDate        = "ORIGINALDATE"
	KeyDate                = "DATE"
	KeyReleaseDate         = "RELEASEDATE"
	KeyTaggingDate         = "TAGGINGDATE"
	KeyEncodedBy           = "ENCODEDBY"
	KeyLyricist            = "LYRICIST"
	KeyFileType            = "FILETYPE"
	KeyWork                = "WORK"
	KeyITunesWork          = "Work"
	KeyTitle               = "TITLE"
	KeySubtitle            = "SUBTITLE"
	KeyInitialKey          = "INITIALKEY"
	KeyLanguage            = "LANGUAGE"
	KeyLength              = "LENGTH"
	KeyMedia               = "MEDIA"
	KeyMood                = "MOOD"
	KeyOriginalAlbum       = "ORIGINALALBUM"
	KeyOriginalFilename    = "ORIGINALFILENAME"
	KeyOriginalLyricist    = "ORIGINALLYRICIST"
	KeyOriginalArtist      = "ORIGINALARTIST"
	KeyOwner               = "OWNER"
	KeyArtist              = "ARTIST"
	KeyAlbumArtist         = "ALBUMARTIST"
	KeyPerformer           = "PERFORMER"
	KeyConductor           = "CONDUCTOR"
	KeyRemixer             = "REMIXER"
	KeyArranger            = "ARRANGER"
	KeyDiscNumber          = "DISCNUMBER"
	KeyProducedNotice      = "PRODUCEDNOTICE"
	KeyLabel               = "LABEL"
	KeyTrackNumber         = "TRACKNUMBER"
	KeyRadioStation        = "RADIOSTATION"
	KeyRadioStationOwner   = "RADIOSTATIONOWNER"
	KeyAlbumSort           = "ALBUMSORT"
	KeyComposerSort        = "COMPOSERSORT"
	KeyArtistSort          = "ARTISTSORT"
	KeyTitleSort           = "TITLESORT"
	KeyAlbumArtistSort     = "ALBUMARTISTSORT"
	KeyISRC                = "ISRC"
	KeyEncoding            = "ENCODING"
	KeyDiscSubtitle        = "DISCSUBTITLE"
	KeyCopyrightURL        = "COPYRIGHTURL"
	KeyFileWebpage         = "FILEWEBPAGE"
	KeyArtistWebpage       = "ARTISTWEBPAGE"
	KeyAudioSourceWebpage  = "AUDIOSOURCEWEBPAGE"
	KeyRadioStationWebpage = "RADIOSTATIONWEBPAGE"
	KeyPaymentWebpage      = "PAYMENTWEBPAGE"
	KeyPublisherWebpage    = "PUBLISHERWEBPAGE"
	KeyComment             = "COMMENT"
	KeyPodcast             = "PODCAST"
	KeyPodcastCategory     = "PODCASTCATEGORY"
	KeyPodcastDesc         = "PODCASTDESC"
	KeyPodcastID           = "PODCASTID"
	KeyPodcastURL          = "PODCASTURL"
	KeyMovementName        = "MOVEMENTNAME"
	KeyMovementNumber      = "MOVEMENTNUMBER"
	KeyGrouping            = "GROUPING"
	KeyCompilation         = "COMPILATION"

	// KeyLyrics is only present in property maps read WithLyrics.
	KeyLyrics = "LYRICS"
)
