// ABOUTME: Entry point for the cadenza-encode CLI
// ABOUTME: Parses flags and drives a file or tone encode to completion
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Cadenza-Audio/cadenza-go/internal/logging"
	"github.com/Cadenza-Audio/cadenza-go/pkg/audio"
	"github.com/Cadenza-Audio/cadenza-go/pkg/audio/sink"
	"github.com/Cadenza-Audio/cadenza-go/pkg/audio/sinkwriter"
	"github.com/Cadenza-Audio/cadenza-go/pkg/audio/source"
)

var (
	inPath      = flag.String("in", "", "Input audio file (WAV or MP3). If not specified, encodes a test tone")
	outPath     = flag.String("out", "", "Output file path (required)")
	container   = flag.String("container", "", "Output container: wav, flac, opus, pcm (default: from output extension)")
	bitrate     = flag.Int("bitrate", 96, "Codec bitrate in kbit/s for lossy containers")
	toneSeconds = flag.Int("tone-seconds", 3, "Test tone length when no input file is given")
	logFile     = flag.String("log-file", "", "Mirror logs to this file")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	noTUI       = flag.Bool("no-tui", false, "Disable the progress UI, log progress instead")
)

func main() {
	flag.Parse()

	log, closeLogs, err := logging.Setup(*debug, *logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLogs()

	if *outPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	sinkwriter.Startup()
	defer sinkwriter.Shutdown()

	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("encode failed")
	}
}

func run(log zerolog.Logger) error {
	src, err := openSource(log)
	if err != nil {
		return err
	}
	defer src.Close()

	kind, err := resolveContainer()
	if err != nil {
		return err
	}

	out, err := os.Create(*outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	sess, err := sinkwriter.New(out, src.Format(), src.Format(), kind, sinkwriter.WithBitrate(*bitrate))
	if err != nil {
		return err
	}
	log.Info().
		Str("session", sess.ID()).
		Str("container", kind.String()).
		Str("format", src.Format().String()).
		Msg("session open")

	// Sessions are single-writer, so the signal handler must not touch the
	// session itself. It only raises the stop flag; the encode loop drains
	// at the next read and Close runs on this goroutine afterwards.
	var stop atomic.Bool
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		if sig, ok := <-sigChan; ok {
			log.Warn().Str("signal", sig.String()).Msg("interrupted, finishing current block")
			stop.Store(true)
		}
	}()

	stoppable := &stoppableSource{Source: src, stop: &stop}

	started := time.Now()
	if *noTUI {
		err = encodePlain(log, sess, stoppable)
	} else {
		err = encodeTUI(sess, stoppable, &stop)
	}
	if err != nil {
		sess.Close()
		return err
	}
	if stop.Load() {
		log.Warn().Msg("encode interrupted, finalizing partial output")
	}

	if err := sess.Close(); err != nil {
		return fmt.Errorf("finalizing session: %w", err)
	}

	info, statErr := os.Stat(*outPath)
	var size int64
	if statErr == nil {
		size = info.Size()
	}
	log.Info().
		Float64("audio_s", sess.Position().Seconds()).
		Int64("output_bytes", size).
		Dur("elapsed", time.Since(started)).
		Msg("encode complete")
	return nil
}

func openSource(log zerolog.Logger) (source.Source, error) {
	if *inPath == "" {
		format := audio.Format{SampleRate: 48000, Channels: 2, BitDepth: 16}
		log.Info().Int("seconds", *toneSeconds).Msg("no input file, generating test tone")
		return source.NewTone(format, 440, time.Duration(*toneSeconds)*time.Second), nil
	}
	return source.Open(*inPath)
}

// resolveContainer picks the container from the flag, falling back to the
// output file extension.
func resolveContainer() (sink.Container, error) {
	name := *container
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(*outPath)), ".")
	}
	return sink.ParseContainer(name)
}

// stoppableSource ends a source early once a stop is requested. The encode
// loop sees end-of-source at its next read and winds down normally, leaving
// finalization to the caller.
type stoppableSource struct {
	source.Source
	stop *atomic.Bool
}

func (s *stoppableSource) Read(p []byte) (int, error) {
	if s.stop.Load() {
		return 0, io.EOF
	}
	return s.Source.Read(p)
}

func encodePlain(log zerolog.Logger, sess *sinkwriter.Session, src source.Source) error {
	var lastDecile int64 = -1
	return sess.EncodeFrom(src, func(pos, length int64) {
		if length == 0 {
			return
		}
		if decile := pos * 10 / length; decile > lastDecile {
			lastDecile = decile
			log.Info().Int64("percent", decile*10).Msg("encoding")
		}
	})
}

func encodeTUI(sess *sinkwriter.Session, src source.Source, stop *atomic.Bool) error {
	p := tea.NewProgram(newProgressModel(stop))

	done := make(chan error, 1)
	go func() {
		err := sess.EncodeFrom(src, func(pos, length int64) {
			p.Send(progressMsg{position: pos, length: length})
		})
		p.Send(doneMsg{err: err})
		done <- err
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("progress UI: %w", err)
	}
	return <-done
}
