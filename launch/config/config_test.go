package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/MNPJason/MNPCoin-PolisCore/masternode"
)

type testConfig struct {
	suite.Suite
}

func (t *testConfig) TestVersionNumber() {
	v, err := parseVersion("v1.4.1")
	t.NoError(err)
	t.Equal(uint32(1040100), DaemonVersionNumber(v))
	t.Equal("1.4.1", masternode.FormatDaemonVersion(DaemonVersionNumber(v)))

	v, err = parseVersion("1.2.3")
	t.NoError(err)
	t.Equal(uint32(0x010203), SentinelVersionNumber(v))

	t.Equal(masternode.DefaultSentinelVersion, SentinelVersionNumber(nil))
	t.Equal(masternode.DefaultDaemonVersion, DaemonVersionNumber(nil))
}

func (t *testConfig) TestChecker() {
	_, err := NewChecker(context.Background())
	t.Error(err)

	conf := NewBaseLocalNode(nil)
	t.NoError(conf.Policy().SetSentinelPingRequired(false))

	ctx := context.WithValue(context.Background(), ContextValueConfig, LocalNode(conf))
	cc, err := NewChecker(ctx)
	t.NoError(err)
	t.NoError(cc.Check())

	t.Equal(DefaultNetwork, conf.Network())
	t.False(conf.Policy().SentinelPingRequired())
	t.Equal(masternode.DefaultPolicy().MinConfirmations, conf.Policy().MinConfirmations())
}

func (t *testConfig) TestURL() {
	u, err := ParseURLString(" ", true)
	t.NoError(err)
	t.Nil(u)

	_, err = ParseURLString("", false)
	t.Error(err)

	u, err = ParseURLString("gcache:?type=lru", false)
	t.NoError(err)
	t.Equal("gcache", u.Scheme)
}

func TestConfig(t *testing.T) {
	suite.Run(t, new(testConfig))
}
