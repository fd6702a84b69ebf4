// Package logging builds the logrus logger shared by the server and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

// New returns a logger writing to stderr. format is "text", "json" or "plain".
func New(level, format string) (*log.Logger, error) {
	return NewWithOutput(os.Stderr, level, format)
}

func NewWithOutput(out io.Writer, level, format string) (*log.Logger, error) {
	l := log.New()
	l.SetOutput(out)

	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: timestampFormat})
	case "json":
		l.SetFormatter(&log.JSONFormatter{TimestampFormat: timestampFormat})
	case "plain":
		l.SetFormatter(&PlainFormatter{TimestampFormat: timestampFormat})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return l, nil
}

// PlainFormatter prints "LEVEL timestamp message key=value ...".
type PlainFormatter struct {
	TimestampFormat string
}

func (f *PlainFormatter) Format(entry *log.Entry) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-5s %s %s", strings.ToUpper(entry.Level.String()), entry.Time.Format(f.TimestampFormat), entry.Message))
	for _, k := range sortedKeys(entry.Data) {
		sb.WriteString(fmt.Sprintf(" %s=%v", k, entry.Data[k]))
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

func sortedKeys(data log.Fields) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
