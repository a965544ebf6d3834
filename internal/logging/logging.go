// ABOUTME: Zerolog setup shared by the command-line tools
// ABOUTME: Configures console output with optional file mirroring
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Setup builds the process logger. When logFile is non-empty, output is
// mirrored to it in addition to stderr. The returned closer releases the
// file; it is safe to call when no file was opened.
func Setup(debug bool, logFile string) (zerolog.Logger, func(), error) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}

	var out io.Writer = console
	closer := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("opening log file: %w", err)
		}
		fileWriter := zerolog.ConsoleWriter{Out: f, TimeFormat: "2006-01-02 15:04:05", NoColor: true}
		out = zerolog.MultiLevelWriter(console, fileWriter)
		closer = func() { f.Close() }
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}
