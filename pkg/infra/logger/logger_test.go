package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, parseLevel("warn"))
	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, logrus.InfoLevel, parseLevel("nonsense"))
}

func TestLogFilePath(t *testing.T) {
	p, err := logFilePath("admin")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("logs", "admin.log"), p)

	_, err = logFilePath("../../etc/passwd")
	assert.Error(t, err)
}

func TestAsyncFileWriter_FlushesOnClose(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.log")
	w, err := NewAsyncFileWriter(file, 1024)
	require.NoError(t, err)

	n, err := w.Write([]byte("first line\n"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	w.Close()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "first line"))
}

func newJSONLogger(hook logrus.Hook) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.AddHook(hook)
	return logger
}

func TestConsoleHook_MirrorsFormattedEntry(t *testing.T) {
	var out bytes.Buffer
	logger := newJSONLogger(NewConsoleHook(&out))

	logger.WithField("origin", "https://app.example.com").Warn("cors request rejected")

	assert.Contains(t, out.String(), `"msg":"cors request rejected"`)
	assert.Contains(t, out.String(), `"origin":"https://app.example.com"`)
	assert.True(t, strings.HasSuffix(out.String(), "\n"))
}

// blockingWriter holds every write until release is closed.
type blockingWriter struct {
	release chan struct{}
	mu      sync.Mutex
	buf     bytes.Buffer
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	<-w.release
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *blockingWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestAsyncConsoleHook(t *testing.T) {
	t.Run("it should flush queued entries on close", func(t *testing.T) {
		var out bytes.Buffer
		hook := NewAsyncConsoleHook(&out, 16)
		logger := newJSONLogger(hook)

		logger.Info("policy snapshot swapped")
		logger.Info("cors policies reloaded")
		hook.Close()

		assert.Contains(t, out.String(), "policy snapshot swapped")
		assert.Contains(t, out.String(), "cors policies reloaded")
		assert.Zero(t, hook.Dropped())
	})

	t.Run("it should drop entries instead of blocking when the queue is full", func(t *testing.T) {
		w := &blockingWriter{release: make(chan struct{})}
		hook := NewAsyncConsoleHook(w, 1)
		logger := newJSONLogger(hook)

		for i := 0; i < 5; i++ {
			logger.Info("cors request rejected")
		}
		assert.GreaterOrEqual(t, hook.Dropped(), uint64(3))

		close(w.release)
		hook.Close()

		assert.Contains(t, w.String(), "console log lines dropped")
	})
}
