package logger

import (
	"exam_system_backend/internal/config"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is a no-op until InitLogger runs, so packages can log from tests.
var Log = zap.NewNop()

// Level resolves log.level, falling back to debug in debug mode and info otherwise.
func Level(cfg *config.Config) (zapcore.Level, error) {
	if cfg.Log.Level == "" {
		if cfg.Server.Mode == "debug" {
			return zap.DebugLevel, nil
		}
		return zap.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	return level, nil
}

func InitLogger(cfg *config.Config) error {
	level, err := Level(cfg)
	if err != nil {
		return err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level),
	}
	// An empty log.file keeps logging on the console only.
	if cfg.Log.File != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)).
		With(zap.String("app", "exam-system"), zap.String("mode", cfg.Server.Mode))
	return nil
}

// Attempt names the single-attempt key of an exam: organization, student,
// course and month.
func Attempt(orgID uint, studentID string, courseID uint, month int) zap.Field {
	return zap.Object("attempt", attemptKey{orgID, studentID, courseID, month})
}

type attemptKey struct {
	orgID     uint
	studentID string
	courseID  uint
	month     int
}

func (k attemptKey) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint("org_id", k.orgID)
	enc.AddString("student_id", k.studentID)
	enc.AddUint("course_id", k.courseID)
	enc.AddInt("month", k.month)
	return nil
}
