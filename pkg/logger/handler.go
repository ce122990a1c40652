package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	initialBufferCapacity = 256

	timestampLayout = "2006-01-02T15:04:05-07:00"
)

// KVHandler writes one "timestamp LEVEL msg key=value" line per record.
type KVHandler struct {
	mu     *sync.Mutex
	writer io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewFileHandler creates a KVHandler appending to the file at path.
func NewFileHandler(path string, level Level) (*KVHandler, error) {
	//nolint:gosec // path comes from a CLI flag of the invoking user
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, err
	}

	return NewWriterHandler(file, level), nil
}

// NewWriterHandler creates a KVHandler that writes to w.
func NewWriterHandler(w io.Writer, level Level) *KVHandler {
	return &KVHandler{
		mu:     &sync.Mutex{},
		writer: w,
		level:  level.ToSlogLevel(),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *KVHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
func (h *KVHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, initialBufferCapacity)

	buf = append(buf, r.Time.Local().Format(timestampLayout)...)
	buf = append(buf, ' ')
	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	for _, a := range h.attrs {
		buf = h.appendAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, a)

		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.writer.Write(buf)

	return err
}

func (h *KVHandler) appendAttr(buf []byte, a slog.Attr) []byte {
	if a.Equal(slog.Attr{}) {
		return buf
	}

	buf = append(buf, ' ')

	if len(h.groups) > 0 {
		buf = append(buf, strings.Join(h.groups, ".")...)
		buf = append(buf, '.')
	}

	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	val := a.Value.Resolve().String()
	if strings.ContainsAny(val, " \t\n\"") {
		return append(buf, quoteValue(val)...)
	}

	return append(buf, val...)
}

var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quoteValue(s string) string {
	return `"` + valueEscaper.Replace(s) + `"`
}

// WithAttrs returns a new handler with the given attributes added.
func (h *KVHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &clone
}

// WithGroup returns a new handler with the given group name added.
func (h *KVHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)

	return &clone
}

// Close closes the underlying writer if it implements io.Closer.
func (h *KVHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if closer, ok := h.writer.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}
