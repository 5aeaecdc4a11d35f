package mylog

import (
	"os"
	"path/filepath"
	"time"

	"github.com/coschain/contentos-reward/iservices"
	"github.com/lestrrat/go-file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

// const
const (
	PanicLevel = "panic"
	FatalLevel = "fatal"
	ErrorLevel = "error"
	WarnLevel  = "warn"
	InfoLevel  = "info"
	DebugLevel = "debug"
)

const (
	logFileName  = "rewardsim.log"
	rotationTime = 24 * time.Hour
	defaultAge   = 7
)

type MyLog struct {
	Logger *logrus.Logger
}

var _ iservices.ILog = (*MyLog)(nil)

func (m *MyLog) GetLog() *logrus.Logger {
	return m.Logger
}

func convertLevel(level string) logrus.Level {
	switch level {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

func NewMyLog(path string, level string, age uint32) (*MyLog, error) {
	l, err := Init(path, level, age)
	if err != nil {
		return nil, err
	}
	return &MyLog{Logger: l}, nil
}

// NewFileRotateHooker sends every level to a daily rotated file under path, keeping age days.
func NewFileRotateHooker(path string, age uint32) (logrus.Hook, error) {
	if age == 0 {
		age = defaultAge
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, errors.Wrapf(err, "create log dir %s", path)
	}
	file := filepath.Join(path, logFileName)
	writer, err := rotatelogs.New(
		file+".%Y%m%d",
		rotatelogs.WithLinkName(file),
		rotatelogs.WithMaxAge(time.Duration(age)*24*time.Hour),
		rotatelogs.WithRotationTime(rotationTime),
	)
	if err != nil {
		return nil, errors.Wrap(err, "rotatelogs")
	}
	return lfshook.NewHook(lfshook.WriterMap{
		logrus.DebugLevel: writer,
		logrus.InfoLevel:  writer,
		logrus.WarnLevel:  writer,
		logrus.ErrorLevel: writer,
		logrus.FatalLevel: writer,
		logrus.PanicLevel: writer,
	}, &logrus.JSONFormatter{}), nil
}

// Init loggers. An empty path logs to stdout only.
func Init(path string, level string, age uint32) (*logrus.Logger, error) {
	clog := logrus.New()
	if path != "" {
		fileHooker, err := NewFileRotateHooker(path, age)
		if err != nil {
			return nil, err
		}
		clog.Hooks.Add(fileHooker)
	}
	clog.Out = os.Stdout
	clog.Formatter = &logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	}
	clog.Level = convertLevel(level)

	return clog, nil
}
