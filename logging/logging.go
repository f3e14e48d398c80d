// Package logging builds the process logger: console, session file and optional GELF
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lixenwraith/coaster/config"
)

// Session is an open logging setup, Close flushes and releases its outputs
type Session struct {
	Logger zerolog.Logger
	// Path is the session log file
	Path string

	file    *os.File
	graylog *gelf.Writer
}

// ParseLevel maps a config level name to a zerolog level, unknown names give info
func ParseLevel(s string) zerolog.Level {
	switch strings.ToUpper(s) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SessionFile returns the log file name for a session started at t
func SessionFile(dir string, t time.Time) string {
	return filepath.Join(dir, "ridesim."+t.Format("20060102_150405")+".log")
}

// Setup sets the global level and builds the process logger
// console is the colored output, usually os.Stdout; nil leaves only the file.
func Setup(cfg config.Settings, console io.Writer) (*Session, error) {
	zerolog.SetGlobalLevel(ParseLevel(cfg.LogLevel))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating logs dir: %w", err)
	}
	s := &Session{Path: SessionFile(cfg.LogsDir, time.Now())}
	file, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	s.file = file

	writers := make([]io.Writer, 0, 3)
	if console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
		})
	}
	writers = append(writers, zerolog.ConsoleWriter{
		Out:        file,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	})

	var graylogErr error
	if cfg.Graylog.Enabled {
		s.graylog, graylogErr = gelf.NewWriter(cfg.Graylog.Address)
		if graylogErr == nil {
			writers = append(writers, s.graylog)
		}
	}

	s.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	log.Logger = s.Logger

	if graylogErr != nil {
		s.Logger.Warn().Err(graylogErr).Str("address", cfg.Graylog.Address).Msg("Graylog writer unavailable")
	}
	s.Logger.Info().Str("loglevel", zerolog.GlobalLevel().String()).Str("file", s.Path).Msg("Logging set up")
	return s, nil
}

// Close releases the log file and the GELF connection
func (s *Session) Close() error {
	var err error
	if s.graylog != nil {
		err = s.graylog.Close()
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
