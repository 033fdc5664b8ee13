package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const logsDir = "logs"

type Options struct {
	// Server names the log file, logs/<server>.log
	Server string
	Level  string
	// AsyncConsole drops console lines instead of blocking when the
	// console is slow. Used on the proxy hot path.
	AsyncConsole bool
	// Disable the file writer, console only
	NoFile bool
}

// NewLogger builds the JSON logger shared by the admin and proxy servers.
// The returned close function flushes the file writer and console hook.
func NewLogger(opts Options) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(parseLevel(opts.Level))

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if opts.NoFile {
		logger.SetOutput(os.Stdout)
		return logger, closeAll, nil
	}

	logFile, err := logFilePath(opts.Server)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(logsDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	asyncWriter, err := NewAsyncFileWriter(logFile, 32*1024)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize async log writer: %w", err)
	}
	closers = append(closers, asyncWriter.Close)
	logger.SetOutput(asyncWriter)

	if opts.AsyncConsole {
		hook := NewAsyncConsoleHook(os.Stdout, 1000)
		closers = append(closers, hook.Close)
		logger.AddHook(hook)
	} else {
		logger.AddHook(NewConsoleHook(os.Stdout))
	}

	return logger, closeAll, nil
}

func parseLevel(level string) logrus.Level {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

func logFilePath(server string) (string, error) {
	if server == "" {
		server = "proxy"
	}
	logFile := filepath.Clean(filepath.Join(logsDir, server+".log"))
	if !strings.HasPrefix(logFile, logsDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid log file path %q: must be in %s directory", logFile, logsDir)
	}
	return logFile, nil
}
