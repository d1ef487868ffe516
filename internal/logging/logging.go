// Package logging configures the process-wide logrus logger and the echo
// request log that feeds it.
package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	// File, when set, receives a rotated copy of every line.
	File string
}

// Setup applies opts to the standard logger. The returned closer flushes the
// rotating file sink and is a no-op without one.
func Setup(opts Options) (io.Closer, error) {
	return configure(log.StandardLogger(), opts, os.Stdout)
}

func configure(l *log.Logger, opts Options, stdout io.Writer) (io.Closer, error) {
	l.SetFormatter(&log.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})

	level := log.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		parsed, err := log.ParseLevel(s)
		if err != nil {
			return nopCloser{}, err
		}
		level = parsed
	}
	l.SetLevel(level)

	if opts.File == "" {
		l.SetOutput(stdout)
		return nopCloser{}, nil
	}
	rot := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    100, // MB
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   true,
	}
	l.SetOutput(io.MultiWriter(stdout, rot))
	return rot, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
