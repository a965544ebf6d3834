// ABOUTME: Source package for pull-based PCM byte suppliers
// ABOUTME: Provides the Source interface plus WAV, MP3, tone and buffer sources
// Package source provides pull-based suppliers of raw PCM bytes.
//
// A Source exposes its format (and thus byte rate) and optional position
// and length metadata for progress reporting. Read returns io.EOF at end
// of source.
//
// Implementations: WAV files (go-audio/wav), MP3 files (hajimehoshi/go-mp3),
// a sine tone generator and an in-memory buffer. Open dispatches on file
// extension.
//
// Example:
//
//	src, err := source.Open("song.mp3")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	fmt.Println(src.Format(), src.Length())
package source
