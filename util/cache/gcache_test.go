package cache

import (
	"net/url"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"

	"github.com/MNPJason/MNPCoin-PolisCore/util"
)

type testGCache struct {
	suite.Suite
}

func (t *testGCache) TestNew() {
	ca, err := NewGCacheWithQuery(nil)
	t.NoError(err)

	_, ok := (interface{})(ca).(Cache)
	t.True(ok)

	t.Equal(DefaultGCacheSize, ca.size)
	t.Equal(DefaultCacheExpire, ca.expire)
}

func (t *testGCache) TestWithSize() {
	{
		query := url.Values{}
		query.Set("size", "a3333")
		_, err := NewGCacheWithQuery(query)
		t.Contains(err.Error(), "invalid size")
	}

	{
		query := url.Values{}
		query.Set("size", "3333")
		ca, err := NewGCacheWithQuery(query)
		t.NoError(err)

		t.Equal(3333, ca.size)
		t.Equal(DefaultCacheExpire, ca.expire)
	}
}

func (t *testGCache) TestWithExpire() {
	query := url.Values{}
	query.Set("expire", "showme")
	_, err := NewGCacheWithQuery(query)
	t.Contains(err.Error(), "invalid expire")
}

func (t *testGCache) TestUnknownType() {
	query := url.Values{}
	query.Set("type", "fifo")
	_, err := NewGCacheWithQuery(query)
	t.Contains(err.Error(), "not supported type")
}

func (t *testGCache) TestSetGet() {
	ca, err := NewGCache("lru", 10, time.Minute)
	t.NoError(err)

	t.NoError(ca.Set("a", 1, 0))
	t.True(ca.Has("a"))
	t.Equal(1, ca.Len())

	i, err := ca.Get("a")
	t.NoError(err)
	t.Equal(1, i)

	_, err = ca.Get("b")
	t.True(errors.Is(err, util.NotFoundError))

	t.True(ca.Remove("a"))
	t.False(ca.Has("a"))
}

func (t *testGCache) TestFromURI() {
	ca, err := NewCacheFromURI("gcache:?type=arc&size=33")
	t.NoError(err)
	t.IsType(&GCache{}, ca)

	ca, err = NewCacheFromURI("dummy:")
	t.NoError(err)
	t.NoError(ca.Set("a", 1, 0))
	t.False(ca.Has("a"))

	_, err = ca.Get("a")
	t.True(errors.Is(err, util.NotFoundError))

	_, err = NewCacheFromURI("redis://localhost")
	t.Contains(err.Error(), "not supported uri")
}

func TestGCache(t *testing.T) {
	suite.Run(t, new(testGCache))
}
