package log

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/housevalue/pkg/errors"
)

// SetupWarnings routes errors.Warn into a zerolog logger writing JSON lines
// to w. Warnings implementing zerolog.LogObjectMarshaler contribute their
// structured fields.
func SetupWarnings(w io.Writer) zerolog.Logger {
	zl := zerolog.New(w).With().Timestamp().Str(ComponentKey, "warnings").Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		ev := zl.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(warning.Error())
	})
	return zl
}

// ResetWarnings restores the default warning handler.
func ResetWarnings() {
	errors.SetZerologWarnFunc(nil)
}
