// Package logger provides the process-wide structured logger, built on
// zerolog, shared by every component of the terminal server.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var Logger zerolog.Logger

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

func init() {
	Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func levelOf(l Level) zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Configure sets up the global logger. isDev switches to a human-readable
// console writer; otherwise structured JSON is written to stderr.
func Configure(level Level, isDev bool) {
	zerolog.SetGlobalLevel(levelOf(level))

	var writer io.Writer = os.Stderr
	if isDev {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
			FormatTimestamp: func(i interface{}) string {
				if ts, ok := i.(string); ok {
					if t, err := time.Parse(time.RFC3339, ts); err == nil {
						return fmt.Sprintf("%s |", t.Format("15:04:05"))
					}
				}
				return fmt.Sprintf("%s |", i)
			},
			FormatLevel: func(i interface{}) string {
				ll, _ := i.(string)
				return strings.ToUpper(ll)
			},
		}
	}

	Logger = zerolog.New(writer).With().Timestamp().Logger()
}

// LevelFromEnv resolves a Level from DEBUG/NOIRTTY_LOG_LEVEL the way the
// teacher's runtime config resolves logging verbosity: DEBUG is a blunt
// override, NOIRTTY_LOG_LEVEL names a level explicitly.
func LevelFromEnv() Level {
	debug := strings.ToLower(os.Getenv("DEBUG"))
	if debug == "true" || debug == "1" {
		return LevelDebug
	}
	if v := os.Getenv("NOIRTTY_LOG_LEVEL"); v != "" {
		return Level(strings.ToLower(v))
	}
	return LevelInfo
}

func Debug(msg string)                          { Logger.Debug().Msg(msg) }
func Debugf(format string, args ...interface{})  { Logger.Debug().Msgf(format, args...) }
func Info(msg string)                            { Logger.Info().Msg(msg) }
func Infof(format string, args ...interface{})   { Logger.Info().Msgf(format, args...) }
func Warn(msg string)                            { Logger.Warn().Msg(msg) }
func Warnf(format string, args ...interface{})   { Logger.Warn().Msgf(format, args...) }
func Error(msg string)                           { Logger.Error().Msg(msg) }
func Errorf(format string, args ...interface{})  { Logger.Error().Msgf(format, args...) }
func Fatal(msg string)                           { Logger.Fatal().Msg(msg) }
func Fatalf(format string, args ...interface{})  { Logger.Fatal().Msgf(format, args...) }
