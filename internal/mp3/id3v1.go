package mp3

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/charset"
	"github.com/simonhull/audiotag/internal/types"
)

const id3v1Size = 128

// genres is the ID3v1 genre list including the Winamp extensions.
var genres = [...]string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel", "Noise",
	"Alternative Rock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic", "Darkwave",
	"Techno-Industrial", "Electronic", "Pop-Folk", "Eurodance", "Dream",
	"Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40", "Christian Rap",
	"Pop/Funk", "Jungle", "Native American", "Cabaret", "New Wave",
	"Psychedelic", "Rave", "Showtunes", "Trailer", "Lo-Fi", "Tribal",
	"Acid Punk", "Acid Jazz", "Polka", "Retro", "Musical", "Rock & Roll",
	"Hard Rock", "Folk", "Folk Rock", "National Folk", "Swing", "Fast Fusion",
	"Bebop", "Latin", "Revival", "Celtic", "Bluegrass", "Avantgarde",
	"Gothic Rock", "Progressive Rock", "Psychedelic Rock", "Symphonic Rock",
	"Slow Rock", "Big Band", "Chorus", "Easy Listening", "Acoustic", "Humour",
	"Speech", "Chanson", "Opera", "Chamber Music", "Sonata", "Symphony",
	"Booty Bass", "Primus", "Porn Groove", "Satire", "Slow Jam", "Club",
	"Tango", "Samba", "Folklore", "Ballad", "Power Ballad", "Rhythmic Soul",
	"Freestyle", "Duet", "Punk Rock", "Drum Solo", "A Cappella", "Euro-House",
	"Dance Hall", "Goa", "Drum & Bass", "Club-House", "Hardcore Techno",
	"Terror", "Indie", "Britpop", "Worldbeat", "Polsk Punk", "Beat",
	"Christian Gangsta Rap", "Heavy Metal", "Black Metal", "Crossover",
	"Contemporary Christian", "Christian Rock", "Merengue", "Salsa",
	"Thrash Metal", "Anime", "Jpop", "Synthpop", "Abstract", "Art Rock",
	"Baroque", "Bhangra", "Big Beat", "Breakbeat", "Chillout", "Downtempo",
	"Dub", "EBM", "Eclectic", "Electro", "Electroclash", "Emo", "Experimental",
	"Garage", "Global", "IDM", "Illbient", "Industro-Goth", "Jam Band",
	"Krautrock", "Leftfield", "Lounge", "Math Rock", "New Romantic",
	"Nu-Breakz", "Post-Punk", "Post-Rock", "Psytrance", "Shoegaze",
	"Space Rock", "Trop Rock", "World Music", "Neoclassical", "Audiobook",
	"Audio Theatre", "Neue Deutsche Welle", "Podcast", "Indie Rock",
	"G-Funk", "Dubstep", "Garage Rock", "Psybient",
}

// genreName looks up an ID3v1 genre index.
func genreName(index int) (string, bool) {
	if index < 0 || index >= len(genres) {
		return "", false
	}
	return genres[index], true
}

// hasID3v1 reports whether the file ends with an ID3v1 tag.
func hasID3v1(sr *binutil.SafeReader, size int64) bool {
	if size < id3v1Size {
		return false
	}
	magic := make([]byte, 3)
	if err := sr.ReadAt(magic, size-id3v1Size, "ID3v1 magic"); err != nil {
		return false
	}
	return string(magic) == "TAG"
}

// readID3v1 parses the trailing ID3v1 (or v1.1) tag. Text fields are
// ISO-8859-1. Returns nil when the file has no ID3v1 tag.
func readID3v1(sr *binutil.SafeReader, size int64) types.PropertyMap {
	if !hasID3v1(sr, size) {
		return nil
	}
	buf := make([]byte, id3v1Size)
	if err := sr.ReadAt(buf, size-id3v1Size, "ID3v1 tag"); err != nil {
		return nil
	}

	field := func(b []byte) string {
		if i := bytes.IndexByte(b, 0); i >= 0 {
			b = b[:i]
		}
		return strings.TrimRight(charset.DecodeLatin1(b), " ")
	}

	props := types.NewPropertyMap()
	set := func(key, value string) {
		if value != "" {
			props.Set(key, value)
		}
	}
	set("TITLE", field(buf[3:33]))
	set("ARTIST", field(buf[33:63]))
	set("ALBUM", field(buf[63:93]))
	set("DATE", field(buf[93:97]))

	comment := buf[97:127]
	if comment[28] == 0 && comment[29] != 0 {
		// ID3v1.1 track number
		set("TRACKNUMBER", strconv.Itoa(int(comment[29])))
		comment = comment[:28]
	}
	set("COMMENT", field(comment))

	if name, ok := genreName(int(buf[127])); ok {
		props.Set("GENRE", name)
	}
	return props
}

// stripID3v1 removes a trailing ID3v1 tag from the file at path.
func stripID3v1(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !hasID3v1(binutil.NewSafeReader(f, info.Size(), path), info.Size()) {
		return nil
	}
	if err := f.Truncate(info.Size() - id3v1Size); err != nil {
		return fmt.Errorf("strip ID3v1 tag: %w", err)
	}
	return nil
}
