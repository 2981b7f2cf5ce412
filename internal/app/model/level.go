package model

import (
	"fmt"
	"strings"
)

// Level is the severity of a LogMessage.
type Level int

const (
	VerboseLevel Level = iota
	DebugLevel
	InformationLevel
	WarningLevel
	ErrorLevel
	FatalLevel
)

var levelNames = [...]string{
	VerboseLevel:     "verbose",
	DebugLevel:       "debug",
	InformationLevel: "information",
	WarningLevel:     "warning",
	ErrorLevel:       "error",
	FatalLevel:       "fatal",
}

func (l Level) String() string {
	if l < VerboseLevel || l > FatalLevel {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts the full level name as returned by String as well
// as the common short forms (info, warn, err...), case insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "verbose", "trace", "vrb":
		return VerboseLevel, nil
	case "debug", "dbg":
		return DebugLevel, nil
	case "information", "info", "inf":
		return InformationLevel, nil
	case "warning", "warn", "wrn":
		return WarningLevel, nil
	case "error", "err":
		return ErrorLevel, nil
	case "fatal", "ftl":
		return FatalLevel, nil
	}
	return VerboseLevel, fmt.Errorf("unknown log level %q", s)
}

// MarshalYAML and UnmarshalYAML let a Level appear by name in
// configuration files.
func (l Level) MarshalYAML() (any, error) {
	return l.String(), nil
}

func (l *Level) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}
