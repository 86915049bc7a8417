package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
)

type testLogging struct {
	suite.Suite
}

func (t *testLogging) TestNopByDefault() {
	lg := NewLogging(func(c zerolog.Context) zerolog.Context {
		return c.Str("module", "showme")
	})

	t.Equal(zerolog.Disabled, lg.Log().GetLevel())
}

func (t *testLogging) TestSetLogging() {
	var bf bytes.Buffer
	root := Setup(&bf, zerolog.InfoLevel, "json", false)

	lg := NewLogging(func(c zerolog.Context) zerolog.Context {
		return c.Str("module", "showme")
	})
	_ = lg.SetLogging(root)

	lg.Log().Info().Int("score", 5).Msg("findme")

	var m map[string]interface{}
	t.NoError(json.Unmarshal(bf.Bytes(), &m))
	t.Equal("showme", m["module"])
	t.Equal("findme", m["message"])
	t.Equal(float64(5), m["score"])
}

func (t *testLogging) TestLevel() {
	var bf bytes.Buffer
	root := Setup(&bf, zerolog.WarnLevel, "json", false)

	root.Log().Debug().Msg("hidden")
	t.Empty(bf.Bytes())

	t.False(root.IsTraceLog())
}

func (t *testLogging) TestEmptyOutputs() {
	_, err := Outputs(nil)
	t.Error(err)
	t.Contains(err.Error(), "empty log files")
}

func TestLogging(t *testing.T) {
	suite.Run(t, new(testLogging))
}
