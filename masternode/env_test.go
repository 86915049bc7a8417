package masternode

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/MNPJason/MNPCoin-PolisCore/base"
	"github.com/MNPJason/MNPCoin-PolisCore/base/key"
)

const (
	testBlockStart    int64 = 1000
	testBlockInterval int64 = 60
)

type dummyChain struct {
	sync.RWMutex
	blocks []Block
	byHash map[base.Hash]Block
}

func newDummyChain(height int32) *dummyChain {
	c := &dummyChain{byHash: map[base.Hash]Block{}}
	c.extend(height + 1)

	return c
}

func (c *dummyChain) extend(n int32) {
	c.Lock()
	defer c.Unlock()

	for i := int32(0); i < n; i++ {
		height := int32(len(c.blocks))
		b := Block{
			Hash:   chainhash.DoubleHashH([]byte(fmt.Sprintf("block-%d", height))),
			Height: height,
			Time:   testBlockStart + int64(height)*testBlockInterval,
		}

		c.blocks = append(c.blocks, b)
		c.byHash[b.Hash] = b
	}
}

func (c *dummyChain) Tip() (Block, bool) {
	c.RLock()
	defer c.RUnlock()

	if len(c.blocks) < 1 {
		return Block{}, false
	}

	return c.blocks[len(c.blocks)-1], true
}

func (c *dummyChain) BlockByHash(h base.Hash) (Block, bool) {
	c.RLock()
	defer c.RUnlock()

	b, found := c.byHash[h]

	return b, found
}

func (c *dummyChain) BlockByHeight(height int32) (Block, bool) {
	c.RLock()
	defer c.RUnlock()

	if height < 0 || int(height) >= len(c.blocks) {
		return Block{}, false
	}

	return c.blocks[height], true
}

type dummyUTXO struct {
	sync.RWMutex
	coins map[base.Outpoint]Coin
}

func newDummyUTXO() *dummyUTXO {
	return &dummyUTXO{coins: map[base.Outpoint]Coin{}}
}

func (u *dummyUTXO) Coin(o base.Outpoint) (Coin, bool) {
	u.RLock()
	defer u.RUnlock()

	c, found := u.coins[o]

	return c, found
}

func (u *dummyUTXO) set(o base.Outpoint, c Coin) {
	u.Lock()
	defer u.Unlock()

	u.coins[o] = c
}

func (u *dummyUTXO) spend(o base.Outpoint) {
	u.Lock()
	defer u.Unlock()

	delete(u.coins, o)
}

type dummyRelayer struct {
	sync.Mutex
	pings         []Ping
	broadcasts    []Broadcast
	verifications []Verification
}

func (r *dummyRelayer) RelayPing(p Ping) {
	r.Lock()
	defer r.Unlock()

	r.pings = append(r.pings, p)
}

func (r *dummyRelayer) RelayBroadcast(mnb Broadcast) {
	r.Lock()
	defer r.Unlock()

	r.broadcasts = append(r.broadcasts, mnb)
}

func (r *dummyRelayer) RelayVerification(v Verification) {
	r.Lock()
	defer r.Unlock()

	r.verifications = append(r.verifications, v)
}

func (r *dummyRelayer) counts() (int, int, int) {
	r.Lock()
	defer r.Unlock()

	return len(r.pings), len(r.broadcasts), len(r.verifications)
}

type dummyPayments map[int32]base.KeyID

func (p dummyPayments) IsPaid(payee base.KeyID, height int32) bool {
	k, found := p[height]

	return found && k == payee
}

type dummyClock struct {
	t int64
}

func (c *dummyClock) now() int64 {
	return atomic.LoadInt64(&c.t)
}

func (c *dummyClock) add(d int64) {
	atomic.AddInt64(&c.t, d)
}

type testEnv struct {
	*Env
	chain   *dummyChain
	utxo    *dummyUTXO
	relayer *dummyRelayer
	clock   *dummyClock
}

func newTestEnv() testEnv {
	chain := newDummyChain(99)
	utxo := newDummyUTXO()
	relayer := &dummyRelayer{}
	clock := &dummyClock{t: 10000}

	policy := DefaultPolicy()

	return testEnv{
		Env: &Env{
			Chain:   chain,
			UTXO:    utxo,
			Relayer: relayer,
			Now:     clock.now,
			Policy:  policy,
		},
		chain:   chain,
		utxo:    utxo,
		relayer: relayer,
		clock:   clock,
	}
}

type testKeys struct {
	outpoint   base.Outpoint
	collateral key.LegacyPrivatekey
	masternode key.LegacyPrivatekey
}

func newTestKeys(name string) testKeys {
	collateral, err := key.NewLegacyPrivatekey()
	if err != nil {
		panic(err)
	}

	masternode, err := key.NewLegacyPrivatekey()
	if err != nil {
		panic(err)
	}

	return testKeys{
		outpoint:   base.NewOutpoint(chainhash.DoubleHashH([]byte(name)), 1),
		collateral: collateral,
		masternode: masternode,
	}
}

// fund puts the collateral of keys at the height.
func (env testEnv) fund(keys testKeys, height int32) {
	env.utxo.set(keys.outpoint, Coin{
		Amount: env.Policy.CollateralAmount,
		KeyID:  keys.collateral.LegacyPublickey().KeyID(),
		Height: height,
	})
}
