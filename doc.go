// Package audiotag reads and writes audio file tags through one
// format-agnostic model.
//
// Every supported container is translated to the same four things: audio
// properties, a multi-valued string property map, an ordered list of
// pictures and, on request, lyrics. Changes to the model are written back
// in the container's own encoding rules.
//
// # Quick Start
//
// Reading metadata from an audio file:
//
//	d, err := audiotag.Open("song.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//	md, err := audiotag.ReadMetadata(d)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if md == nil {
//		log.Fatal("not an audio file")
//	}
//
//	title, _ := md.Properties.First(audiotag.KeyTitle)
//	fmt.Printf("%s (%s)\n", title, md.AudioProperties)
//
// # Descriptors
//
// Each read or write function consumes a *Descriptor and closes it before
// returning. Passing the same descriptor twice fails with
// ErrDescriptorConsumed; use Dup to make several calls against one file:
//
//	again, err := d.Dup()
//	...
//	md, err := audiotag.ReadMetadata(d)
//	...
//	err = audiotag.WritePropertyMap(again, md.Properties)
//
// Reads use positioned I/O, so duplicated descriptors never disturb each
// other. Concurrent writes to the same file are not supported; callers
// that need them must hold their own lock.
//
// # Supported Formats
//
//   - MP3: ID3v2.3 and ID3v2.4 tags, ID3v1 fallback on read
//   - FLAC: Vorbis comments and picture blocks
//   - M4A/M4B, Ogg Vorbis, Opus, WAV, AIFF, APE, WavPack, ASF and DSF
//     through TagLib
//
// # Property Map
//
// Keys are case-sensitive strings, canonically upper case (see the Key
// constants). A present key always has at least one value. Writing a map
// replaces the whole tag: keys missing from it are removed from the file.
//
// Lyrics are only placed in the map when requested with WithLyrics. Writing
// back a map that was read without lyrics therefore removes them:
//
//	md, _ := audiotag.ReadMetadata(d)           // no LYRICS key
//	_ = audiotag.WritePropertyMap(again, md.Properties) // lyrics are gone
//
// # Pictures
//
// Pictures keep their stored order. ReadPictures returns an empty slice for
// a file without pictures and nil only for an unrecognized container.
// FrontCover picks the first "Front Cover", falling back to the first
// picture.
//
// # Writes
//
// Writes never touch the original until the new contents are proven: the
// file is copied, the copy is rewritten and read back, and only then are
// its bytes committed over the original in place. For MP3 and FLAC the
// audio payload of the copy is checksummed against the original. A failed
// write returns an error and leaves the file as it was.
//
// # Error Handling
//
// audiotag distinguishes between errors and warnings:
//
//   - Errors stop the operation (I/O failure, descriptor reuse, a value the
//     format cannot hold)
//   - Warnings report recovered problems (text in the wrong encoding, a
//     reserved picture type, a malformed frame)
//
// Unrecognized containers, and recognized ones that cannot be parsed, are
// not an error for reads: the result is nil. A write that fails while being
// committed returns a *CommitError naming where the new contents were kept.
// Warnings are collected in Metadata.Warnings; WithStrictParsing turns the
// first one into an error.
//
// # Logging
//
// The package logs through zerolog and is silent by default. SetLogger
// installs a logger for every call, WithLogger and WithSaveLogger for one.
package audiotag
