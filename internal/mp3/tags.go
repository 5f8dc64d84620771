package mp3

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/simonhull/audiotag/internal/charset"
	"github.com/simonhull/audiotag/internal/types"
)

// frameReader accumulates properties and warnings while translating frames.
type frameReader struct {
	props    types.PropertyMap
	warnings []types.Warning
}

func (r *frameReader) warn(stage, format string, args ...any) {
	r.warnings = append(r.warnings, types.Warning{Stage: stage, Message: fmt.Sprintf(format, args...)})
}

// text normalizes a string decoded by the tag library. Frames declared as
// UTF-8 are handed over as raw bytes, so invalid text is kept through the
// ISO-8859-1 fallback.
func (r *frameReader) text(id, s string) string {
	text, fellBack := charset.Normalize(s)
	if fellBack {
		r.warn("encoding", "frame %s is not valid in its declared encoding, kept as ISO-8859-1", id)
	}
	return text
}

// framesToProperties translates the frames of a parsed tag. Frames are
// visited in ID order so that the result is deterministic.
func framesToProperties(tag *id3v2.Tag) (types.PropertyMap, []types.Warning) {
	r := &frameReader{props: types.NewPropertyMap()}

	all := tag.AllFrames()
	for _, id := range slices.Sorted(maps.Keys(all)) {
		for _, frame := range all[id] {
			r.frame(id, frame)
		}
	}
	return r.props, r.warnings
}

func (r *frameReader) frame(id string, frame id3v2.Framer) {
	switch f := frame.(type) {
	case id3v2.TextFrame:
		r.textFrame(id, splitValues(r.text(id, f.Text)))

	case id3v2.UserDefinedTextFrame:
		r.userText(r.text(id, f.Description), r.text(id, f.Value))

	case id3v2.CommentFrame:
		key := describedKey(keyComment, r.text(id, f.Description))
		r.props.Add(key, splitValues(r.text(id, f.Text))...)

	case id3v2.UnsynchronisedLyricsFrame:
		key := describedKey(keyLyrics, r.text(id, f.ContentDescriptor))
		r.props.Add(key, splitValues(r.text(id, f.Lyrics))...)

	case id3v2.UFIDFrame:
		if f.OwnerIdentifier == musicBrainzOwner {
			r.props.Add(keyMusicBrainzRec, r.text(id, string(f.Identifier)))
		}

	case id3v2.UnknownFrame:
		r.unknownFrame(id, f.Body)
	}
}

// userText adds a TXXX value under its property key.
func (r *frameReader) userText(description, value string) {
	key, ok := txxxKeys[strings.ToUpper(description)]
	if !ok {
		key = description
	}
	if key == "" {
		r.warn("tags", "TXXX frame without description skipped")
		return
	}
	r.props.Add(key, splitValues(value)...)
}

func (r *frameReader) textFrame(id string, values []string) {
	if mapped, ok := v23TextFrames[id]; ok {
		id = mapped
	}

	switch id {
	case "TCON":
		for i, v := range values {
			values[i] = resolveGenre(v)
		}
		r.props.Add("GENRE", values...)
	case "TIPL":
		r.involvedPeople(id, values)
	case "TMCL":
		for i := 0; i+1 < len(values); i += 2 {
			r.props.Add(keyPerformer+":"+strings.ToUpper(values[i]), values[i+1])
		}
	default:
		if key, ok := textFrameKeys[id]; ok {
			r.props.Add(key, values...)
		}
	}
}

func (r *frameReader) involvedPeople(id string, values []string) {
	if len(values)%2 != 0 {
		r.warn("tags", "frame %s has an odd number of entries", id)
	}
	for i := 0; i+1 < len(values); i += 2 {
		key, ok := involvedPeopleRoles[strings.ToLower(values[i])]
		if !ok {
			r.warn("tags", "frame %s role %q has no property key", id, values[i])
			continue
		}
		r.props.Add(key, values[i+1])
	}
}

// unknownFrame handles frames the tag library leaves unparsed: URL links,
// IPLS and the iTunes text frames that don't start with T.
func (r *frameReader) unknownFrame(id string, body []byte) {
	if key, ok := urlFrameKeys[id]; ok {
		r.props.Add(key, strings.TrimRight(charset.DecodeLatin1(body), "\x00"))
		return
	}
	if len(body) == 0 {
		return
	}

	if key, ok := textFrameKeys[id]; ok || id == "IPLS" {
		text, fellBack := decodeText(body[1:], body[0])
		if fellBack {
			r.warn("encoding", "frame %s is not valid in its declared encoding, kept as ISO-8859-1", id)
		}
		if id == "IPLS" {
			r.involvedPeople(id, splitValues(text))
		} else {
			r.props.Add(key, splitValues(text)...)
		}
		return
	}

	if id == "WXXX" {
		encoding := body[0]
		rest := body[1:]
		end := findNullTerminator(rest, encoding)
		if end < 0 {
			r.warn("tags", "WXXX frame without description terminator skipped")
			return
		}
		description, _ := decodeText(rest[:end], encoding)
		url := charset.DecodeLatin1(rest[end+terminatorSize(encoding):])
		r.props.Add(describedKey(keyURL, description), strings.TrimRight(url, "\x00"))
	}
}

// frameWriter translates properties into frames of one tag version.
type frameWriter struct {
	tag     *id3v2.Tag
	version byte

	involved []string
	credits  []string
}

// propertiesToFrames removes every managed frame from tag and adds frames
// for m. Keys are processed in sorted order.
func propertiesToFrames(tag *id3v2.Tag, m types.PropertyMap, version byte) error {
	for _, id := range managedFrames {
		tag.DeleteFrames(id)
	}
	keepForeignUFIDs(tag)

	w := &frameWriter{tag: tag, version: version}
	for key, values := range m.All() {
		if err := w.property(key, values); err != nil {
			return err
		}
	}

	if len(w.involved) > 0 {
		id := "TIPL"
		if version < 4 {
			id = "IPLS"
		}
		w.text(id, w.involved)
	}
	if len(w.credits) > 0 {
		w.text("TMCL", w.credits)
	}
	return nil
}

// keepForeignUFIDs drops the MusicBrainz UFID, which the property map owns,
// and keeps identifiers from other owners.
func keepForeignUFIDs(tag *id3v2.Tag) {
	frames := tag.GetFrames("UFID")
	tag.DeleteFrames("UFID")
	for _, frame := range frames {
		if f, ok := frame.(id3v2.UFIDFrame); ok && f.OwnerIdentifier == musicBrainzOwner {
			continue
		}
		tag.AddFrame("UFID", frame)
	}
}

func (w *frameWriter) unrepresentable(key, reason string) error {
	return &types.UnrepresentableError{Format: types.FormatMP3, Key: key, Reason: reason}
}

func (w *frameWriter) property(key string, values []string) error {
	if strings.ContainsRune(key, 0) {
		return w.unrepresentable(key, "key contains a NUL character")
	}
	for _, v := range values {
		if strings.ContainsRune(v, 0) {
			return w.unrepresentable(key, "value contains a NUL character")
		}
	}
	// A trailing separator reads back as a terminator
	if len(values) > 1 && values[len(values)-1] == "" {
		return w.unrepresentable(key, "last of several values is empty")
	}

	if id, ok := keyFrames[key]; ok {
		return w.mapped(key, id, values)
	}
	if role, ok := involvedPeopleKeys[key]; ok {
		for _, v := range values {
			w.involved = append(w.involved, role, v)
		}
		return nil
	}
	if instrument, ok := strings.CutPrefix(key, keyPerformer+":"); ok && instrument != "" {
		for _, v := range values {
			w.credits = append(w.credits, instrument, v)
		}
		return nil
	}
	if description, ok := splitDescribedKey(key, keyComment); ok {
		text := strings.Join(values, "\x00")
		w.tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    w.encoding(description, text),
			Language:    "eng",
			Description: description,
			Text:        text,
		})
		return nil
	}
	if description, ok := splitDescribedKey(key, keyLyrics); ok {
		text := strings.Join(values, "\x00")
		w.tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          w.encoding(description, text),
			Language:          "eng",
			ContentDescriptor: description,
			Lyrics:            text,
		})
		return nil
	}
	if key == keyMusicBrainzRec && len(values) == 1 {
		w.tag.AddFrame("UFID", id3v2.UFIDFrame{
			OwnerIdentifier: musicBrainzOwner,
			Identifier:      []byte(values[0]),
		})
		return nil
	}

	description, ok := txxxDescriptions[key]
	if !ok {
		description = key
	}
	value := strings.Join(values, "\x00")
	w.tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    w.encoding(description, value),
		Description: description,
		Value:       value,
	})
	return nil
}

// mapped writes a key that has a dedicated frame.
func (w *frameWriter) mapped(key, id string, values []string) error {
	switch {
	case id[0] == 'W':
		if len(values) > 1 {
			return w.unrepresentable(key, "URL frames hold a single value")
		}
		url, err := charset.EncodeLatin1(values[0])
		if err != nil {
			return w.unrepresentable(key, err.Error())
		}
		w.tag.AddFrame(id, id3v2.UnknownFrame{Body: url})
	case id[0] != 'T':
		// iTunes text frames the tag library does not know
		text := strings.Join(values, "\x00")
		cs := textCharset(w.version, text)
		encoded, err := charset.Encode(cs, text)
		if err != nil {
			return w.unrepresentable(key, err.Error())
		}
		body := append([]byte{encodingByte(cs)}, encoded...)
		w.tag.AddFrame(id, id3v2.UnknownFrame{Body: body})
	default:
		if w.version < 4 {
			for v23, v24 := range v23TextFrames {
				if v24 == id {
					id = v23
				}
			}
		}
		w.text(id, values)
	}
	return nil
}

func (w *frameWriter) text(id string, values []string) {
	text := strings.Join(values, "\x00")
	w.tag.AddTextFrame(id, w.encoding(text), text)
}

// encoding picks the narrowest frame encoding that holds every text.
func (w *frameWriter) encoding(texts ...string) id3v2.Encoding {
	switch textCharset(w.version, texts...) {
	case charset.Latin1:
		return id3v2.EncodingISO
	case charset.UTF16:
		return id3v2.EncodingUTF16
	default:
		return id3v2.EncodingUTF8
	}
}
