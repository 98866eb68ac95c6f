package log

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// ConsoleSink renders events for a human watching a run.
type ConsoleSink struct{}

// NewConsoleSink returns a console sink.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

var levelColors = map[zerolog.Level]*color.Color{
	zerolog.DebugLevel: color.New(color.FgCyan),
	zerolog.InfoLevel:  color.New(color.FgGreen),
	zerolog.WarnLevel:  color.New(color.FgYellow),
	zerolog.ErrorLevel: color.New(color.FgRed),
	zerolog.FatalLevel: color.New(color.FgRed, color.Bold),
}

func (c *ConsoleSink) Write(event *Event) error {
	levelFmt := color.New(color.FgWhite).SprintFunc()
	if lc, ok := levelColors[event.Level]; ok {
		levelFmt = lc.SprintFunc()
	}

	label := stringField(event.Fields, "story_id")
	if label == "" {
		label = stringField(event.Fields, "run_id")
	}
	if label == "" {
		label = "run"
	}

	line := fmt.Sprintf("[%s %s] %s: %s",
		levelFmt(strings.ToUpper(event.Level.String())),
		event.Timestamp.Format(time.RFC3339),
		color.CyanString(label),
		event.Message,
	)
	if errMsg := stringField(event.Fields, zerolog.ErrorFieldName); errMsg != "" {
		line += fmt.Sprintf(" (%s)", errMsg)
	}
	fmt.Println(line)
	return nil
}

func (c *ConsoleSink) Close() error {
	return nil
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
