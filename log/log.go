// Package log defines the logger engine.
// The unique feature is that it can create a child logger derived from the parent logger.
// Each logger defines a unique color style for the message outputs.
//
// Create a child logger for the packages that the deployer or the chains are calling.
package log

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/gamut"
)

const (
	WITH_TIMESTAMP    = true
	WITHOUT_TIMESTAMP = false
)

// Logger is the wrapper over the logger and keeps the style.
// The style is generated randomly.
type Logger struct {
	logger log.Logger
	style  LoggerStyle
}

// LoggerStyle defines the various colors for each log parts.
type LoggerStyle struct {
	prefix    lipgloss.Style
	separator lipgloss.Style
}

func randomStyle() (LoggerStyle, error) {
	rawPalette, err := gamut.Generate(2, gamut.PastelGenerator{})
	if err != nil {
		return LoggerStyle{}, fmt.Errorf("gamut.Generate: %w", err)
	}
	palette := make([]lipgloss.Color, len(rawPalette))
	for i, rawColor := range rawPalette {
		lighter := gamut.Lighter(rawColor, 0.05)
		palette[i] = lipgloss.Color(gamut.ToHex(lighter))
	}

	// web: questions/42480000/python-ansi-colour-codes-transparent-background
	backgroundColor := lipgloss.Color("49m")

	style := LoggerStyle{}

	style.prefix = lipgloss.NewStyle().
		Bold(true).
		Faint(true).
		Background(backgroundColor).
		Foreground(palette[0])

	style.separator = lipgloss.NewStyle().
		Faint(true).
		Background(backgroundColor).
		Foreground(palette[1])

	return style, nil
}

func (style LoggerStyle) setPrimary() LoggerStyle {
	log.PrefixStyle = style.prefix
	log.SeparatorStyle = style.separator

	return style
}

// New logger with the prefix and timestamp.
// It generates the random color style.
func New(prefix string, timestamp bool) (*Logger, error) {
	randomStyle, err := randomStyle()
	if err != nil {
		return nil, fmt.Errorf("random_style: %w", err)
	}

	logger := log.New()
	logger.SetPrefix(prefix)
	logger.SetReportCaller(false)
	logger.SetReportTimestamp(timestamp)

	newLogger := Logger{
		logger: logger,
		style:  randomStyle,
	}

	return &newLogger, nil
}

// Fatal calls the Error, then os.Exit()
func Fatal(title string, kv ...interface{}) {
	log.Fatal(title, kv...)
}

// Prefix of the logger. The child loggers have the parent's prefix
// separated by '/'.
func (logger *Logger) Prefix() string {
	return logger.logger.GetPrefix()
}

// SetDebug enables the debug messages.
// The child loggers created after the call inherit the level.
func (logger *Logger) SetDebug() {
	logger.logger.SetLevel(log.DebugLevel)
}

// IsDebug returns true if the debug messages are printed
func (logger *Logger) IsDebug() bool {
	return logger.logger.GetLevel() == log.DebugLevel
}

// Info prints the information
func (logger *Logger) Info(title string, kv ...interface{}) {
	logger.style.setPrimary()
	logger.logger.Info(title, kv...)
}

// Debug prints the message only if the logger level is debug
func (logger *Logger) Debug(title string, kv ...interface{}) {
	logger.style.setPrimary()
	logger.logger.Debug(title, kv...)
}

// Fatal prints the error message and then calls the os.Exit()
func (logger *Logger) Fatal(title string, kv ...interface{}) {
	logger.style.setPrimary()
	logger.logger.Fatal(title, kv...)
}

// Warn prints the warning message
func (logger *Logger) Warn(title string, kv ...interface{}) {
	logger.style.setPrimary()
	logger.logger.Warn(title, kv...)
}

// Error prints the error message
func (logger *Logger) Error(title string, kv ...interface{}) {
	logger.style.setPrimary()
	logger.logger.Error(title, kv...)
}

// Child logger from the parent with its own color style.
//
// When to use it?
//
// For example:
//
//	parent, _ := log.New("main", false)
//	vault_log := parent.Child("vault")
//	chain_log := parent.Child("chain", "network_id", "sepolia")
//
//	parent.Info("starting", "secure", true)
//	vault_log.Info("login")
//	chain_log.Info("deploying", "gas_limit", 1000000)
//
//	// prints the following
//	// INFO main: starting: secure=true
//	// INFO main/vault: login
//	// INFO main/chain: deploying network_id=sepolia gas_limit=1000000
func (logger *Logger) Child(prefix string, kv ...interface{}) *Logger {
	child := logger.logger.With(kv...)
	child.SetReportTimestamp(true)

	child.SetPrefix(logger.logger.GetPrefix() + "/" + prefix)

	return &Logger{
		logger: child,
		style:  logger.style,
	}
}
