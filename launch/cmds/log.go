package cmds

import (
	"io"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/MNPJason/MNPCoin-PolisCore/util"
	"github.com/MNPJason/MNPCoin-PolisCore/util/localtime"
	"github.com/MNPJason/MNPCoin-PolisCore/util/logging"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.LevelFieldName = "l"
	zerolog.TimestampFieldName = "t"
	zerolog.MessageFieldName = "m"
	zerolog.TimestampFunc = localtime.UTCNow
	zerolog.InterfaceMarshalFunc = util.JSON.Marshal
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	zerolog.DisableSampling(true)
}

var LogVars = kong.Vars{
	"log_level":  "info",
	"log_format": "terminal",
	"log_color":  "false",
}

type LogFlags struct {
	LogColor  bool      `name:"log-color" help:"force colored log" default:"${log_color}"`
	LogLevel  LogLevel  `name:"log-level" help:"log level {trace debug info warn error} (default: ${log_level})" default:"${log_level}"` // nolint:lll
	LogFormat LogFormat `name:"log-format" help:"log format {json terminal} (default: ${log_format})" default:"${log_format}"`
	LogFile   []string  `name:"log" help:"log files; stdout without them"`
}

// Logging builds the process logger. The log files are used instead of out
// when given.
func (fl *LogFlags) Logging(out io.Writer) (*logging.Logging, error) {
	if len(fl.LogFile) > 0 {
		i, err := logging.Outputs(fl.LogFile)
		if err != nil {
			return nil, err
		}

		out = i
	}

	return logging.Setup(out, fl.LogLevel.Level(), string(fl.LogFormat), fl.LogColor), nil
}

type LogLevel zerolog.Level

func (ll LogLevel) Level() zerolog.Level {
	return zerolog.Level(ll)
}

func (ll LogLevel) MarshalText() ([]byte, error) {
	return []byte(ll.Level().String()), nil
}

func (ll *LogLevel) UnmarshalText(b []byte) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(string(b))))
	if err != nil {
		return errors.Wrapf(err, "invalid log level, %q", string(b))
	}

	*ll = LogLevel(lvl)

	return nil
}

type LogFormat string

func (lf *LogFormat) UnmarshalText(b []byte) error {
	switch s := strings.ToLower(strings.TrimSpace(string(b))); s {
	case "json", "terminal":
		*lf = LogFormat(s)

		return nil
	default:
		return errors.Errorf("invalid log format, %q", s)
	}
}
