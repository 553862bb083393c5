package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ohmynofan/honeygain-pot-bot/internal/domain/model"
	"github.com/ohmynofan/honeygain-pot-bot/internal/platform/ui"
	"github.com/ohmynofan/honeygain-pot-bot/pkg/utils"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	fileLogger *log.Logger
	once       sync.Once
	sink       io.WriteCloser
)

func Init(path string) error {
	var err error
	once.Do(func() {
		if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return
		}
		sink = &lumberjack.Logger{Filename: path, MaxSize: 25, MaxBackups: 5, MaxAge: 14, Compress: true}
		fileLogger = log.New(sink, "", log.Ldate|log.Ltime|log.Lmicroseconds)
	})
	return err
}

// SetOutput replaces the file sink. Used by tests and by callers that already own a writer.
func SetOutput(w io.Writer) {
	fileLogger = log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds)
}

func Close() error {
	if sink != nil {
		return sink.Close()
	}
	return nil
}

type ClassLogger struct {
	class   string
	session *model.Session
}

func NewLogger(v interface{}, session *model.Session) *ClassLogger {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return &ClassLogger{class: t.Name(), session: normalizeSession(session)}
}

func NewNamed(name string, session *model.Session) *ClassLogger {
	return &ClassLogger{class: name, session: normalizeSession(session)}
}

func normalizeSession(session *model.Session) *model.Session {
	if session == nil {
		return nil
	}
	return session.LoggingSession()
}

// Log writes msg to the file log and shows it on the status panel.
func (l *ClassLogger) Log(msg string) {
	l.write(msg)
	if l.session != nil {
		ui.UpdateStatus(*l.session, utils.ShortenText(msg, 140), 0)
	}
}

// Wait shows msg with a ticking countdown for d. It returns ctx.Err() when cancelled first.
func (l *ClassLogger) Wait(ctx context.Context, msg string, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	l.write(fmt.Sprintf("%s (%s)", msg, ui.FormatDelay(d)))

	display := utils.ShortenText(msg, 140)
	deadline := time.Now().Add(d)
	timer := time.NewTimer(d)
	defer timer.Stop()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	l.status(display, d)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			l.status(display, 0)
			return nil
		case <-ticker.C:
			l.status(display, time.Until(deadline))
		}
	}
}

func (l *ClassLogger) JustLog(msg string) {
	l.write(msg)
}

// LogObject writes obj to the file log as YAML under msg.
func (l *ClassLogger) LogObject(msg string, obj interface{}) {
	if fileLogger == nil {
		return
	}
	formatted, err := utils.FormatObject(obj)
	if err != nil {
		l.write(fmt.Sprintf("%s: not loggable: %v", msg, err))
		return
	}
	l.write(fmt.Sprintf("%s:\n%s", msg, formatted))
}

func (l *ClassLogger) status(msg string, remaining time.Duration) {
	if l.session == nil {
		return
	}
	ui.UpdateStatus(*l.session, msg, remaining)
}

func (l *ClassLogger) write(msg string) {
	if fileLogger == nil {
		return
	}
	funcName := callerFunc(3)
	if l.session != nil {
		label := fmt.Sprintf("Operation - Account %d", l.session.AccIdx+1)
		fileLogger.Printf("[%s][%s] %s", label, funcName, msg)
		return
	}
	fileLogger.Printf("[%s][%s] %s", l.class, funcName, msg)
}

func callerFunc(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	parts := strings.Split(fn.Name(), ".")
	return parts[len(parts)-1]
}
