package cmds

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileLoad reads the file of the flag value; "-" reads stdin.
type FileLoad []byte

func (v FileLoad) MarshalText() ([]byte, error) {
	return []byte(v), nil
}

func (v *FileLoad) UnmarshalText(b []byte) error {
	var body []byte

	if bytes.Equal(bytes.TrimSpace(b), []byte("-")) {
		c, err := LoadFromStdInput()
		if err != nil {
			return err
		}

		body = c
	} else {
		c, err := os.ReadFile(filepath.Clean(string(b)))
		if err != nil {
			return errors.Wrap(err, "failed to read file")
		}

		body = c
	}

	if len(bytes.TrimSpace(body)) < 1 {
		return errors.Errorf("empty file")
	}

	*v = body

	return nil
}

func (v FileLoad) Bytes() []byte {
	return []byte(v)
}

func (v FileLoad) String() string {
	return string(v)
}

// LoadFromStdInput reads stdin when something is piped into it.
func LoadFromStdInput() ([]byte, error) {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check stdin")
	}

	if fi.Mode()&os.ModeCharDevice != 0 {
		return nil, errors.Errorf("nothing piped into stdin")
	}

	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read stdin")
	}

	return b, nil
}
