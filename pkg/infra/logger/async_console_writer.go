package logger

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// AsyncConsoleHook is the proxy variant of ConsoleHook. Entries are queued
// and written by a single goroutine; when the queue is full the line is
// dropped and counted so a slow terminal never stalls the CORS filter.
type AsyncConsoleHook struct {
	out     io.Writer
	lines   chan []byte
	done    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

func NewAsyncConsoleHook(out io.Writer, bufferSize int) *AsyncConsoleHook {
	hook := &AsyncConsoleHook{
		out:   out,
		lines: make(chan []byte, bufferSize),
		done:  make(chan struct{}),
	}

	hook.wg.Add(1)
	go hook.drain()

	return hook
}

func (h *AsyncConsoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}

	select {
	case h.lines <- line:
	default:
		h.dropped.Add(1)
	}
	return nil
}

func (h *AsyncConsoleHook) drain() {
	defer h.wg.Done()

	for {
		select {
		case line := <-h.lines:
			_, _ = h.out.Write(line) //nolint:errcheck
		case <-h.done:
			for len(h.lines) > 0 {
				_, _ = h.out.Write(<-h.lines) //nolint:errcheck
			}
			return
		}
	}
}

// Dropped returns the number of entries discarded because the queue was full.
func (h *AsyncConsoleHook) Dropped() uint64 {
	return h.dropped.Load()
}

// Close flushes queued entries and reports how many were dropped.
func (h *AsyncConsoleHook) Close() {
	close(h.done)
	h.wg.Wait()
	if n := h.dropped.Load(); n > 0 {
		_, _ = fmt.Fprintf(h.out, "{\"level\":\"warning\",\"msg\":\"console log lines dropped\",\"dropped\":%d}\n", n) //nolint:errcheck
	}
}

func (h *AsyncConsoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
