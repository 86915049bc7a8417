package config

import (
	"github.com/pkg/errors"

	"github.com/MNPJason/MNPCoin-PolisCore/masternode"
	"github.com/MNPJason/MNPCoin-PolisCore/util"
)

var DefaultNetwork = masternode.NetworkMain

type LocalNode interface {
	Source() map[string]interface{}
	Network() string
	SetNetwork(string) error
	Deterministic() bool
	SetDeterministic(bool) error
	Storage() Storage
	SetStorage(Storage) error
	LocalConfig() LocalConfig
	SetLocalConfig(LocalConfig) error
	Policy() Policy
	SetPolicy(Policy) error
}

type BaseLocalNode struct {
	source        map[string]interface{}
	network       string
	deterministic bool
	storage       Storage
	localConfig   LocalConfig
	policy        Policy
}

func NewBaseLocalNode(source map[string]interface{}) *BaseLocalNode {
	return &BaseLocalNode{
		source:      source,
		storage:     EmptyBaseStorage(),
		localConfig: EmptyDefaultLocalConfig(),
		policy:      &BasePolicy{},
	}
}

func (no BaseLocalNode) Source() map[string]interface{} {
	return no.source
}

func (no BaseLocalNode) Network() string {
	return no.network
}

func (no *BaseLocalNode) SetNetwork(s string) error {
	switch s {
	case masternode.NetworkMain,
		masternode.NetworkTest,
		masternode.NetworkRegtest,
		masternode.NetworkDevnet:
		no.network = s

		return nil
	default:
		return errors.Errorf("unknown network, %q", s)
	}
}

func (no BaseLocalNode) Deterministic() bool {
	return no.deterministic
}

func (no *BaseLocalNode) SetDeterministic(b bool) error {
	no.deterministic = b

	return nil
}

func (no BaseLocalNode) Storage() Storage {
	return no.storage
}

func (no *BaseLocalNode) SetStorage(st Storage) error {
	no.storage = st

	return nil
}

func (no BaseLocalNode) LocalConfig() LocalConfig {
	return no.localConfig
}

func (no *BaseLocalNode) SetLocalConfig(lc LocalConfig) error {
	no.localConfig = lc

	return nil
}

func (no BaseLocalNode) Policy() Policy {
	return no.policy
}

func (no *BaseLocalNode) SetPolicy(p Policy) error {
	no.policy = p

	return nil
}

// MasternodePolicy builds masternode.Policy from config; the unset values
// stay the defaults of mainnet.
func MasternodePolicy(conf LocalNode) masternode.Policy {
	p := masternode.DefaultPolicy()

	if s := conf.Network(); len(s) > 0 {
		p.Network = s
	}

	p.Deterministic = conf.Deterministic()

	cp := conf.Policy()
	if cp == nil {
		return p
	}

	if i := cp.MinProtocolVersion(); i > 0 {
		p.MinProtocolVersion = i
		if p.ProtocolVersion < i {
			p.ProtocolVersion = i
		}
	}

	if i := cp.CollateralAmount(); i > 0 {
		p.CollateralAmount = i
	}

	if i := cp.MinConfirmations(); i > 0 {
		p.MinConfirmations = i
	}

	if i := cp.DefaultPort(); i > 0 {
		p.MainnetDefaultPort = i
	}

	p.SentinelPingRequired = cp.SentinelPingRequired()

	if v := cp.DaemonVersion(); v != nil {
		p.DaemonVersion = DaemonVersionNumber(v)
	}

	return p
}

type localNodeJSONMarshaler struct {
	Network       string                 `json:"network"`
	Deterministic bool                   `json:"deterministic"`
	Storage       map[string]interface{} `json:"storage"`
	LocalConfig   map[string]interface{} `json:"local-config"`
	Policy        map[string]interface{} `json:"policy"`
}

func (no BaseLocalNode) MarshalJSON() ([]byte, error) {
	m := localNodeJSONMarshaler{
		Network:       no.network,
		Deterministic: no.deterministic,
	}

	if no.storage != nil {
		m.Storage = map[string]interface{}{"path": no.storage.Path()}
	}

	if lc := no.localConfig; lc != nil {
		m.LocalConfig = map[string]interface{}{
			"sync-interval":  lc.SyncInterval().String(),
			"time-server":    lc.TimeServer(),
			"check-interval": lc.CheckInterval().String(),
			"vote-retention": lc.VoteRetention().String(),
		}

		if lc.Cache() != nil {
			m.LocalConfig["cache"] = lc.Cache().String()
		}
	}

	if p := no.policy; p != nil {
		m.Policy = map[string]interface{}{
			"min-protocol-version":   p.MinProtocolVersion(),
			"collateral-amount":      p.CollateralAmount(),
			"min-confirmations":      p.MinConfirmations(),
			"sentinel-ping-required": p.SentinelPingRequired(),
			"default-port":           p.DefaultPort(),
		}

		if v := p.SentinelVersion(); v != nil {
			m.Policy["sentinel-version"] = v.String()
		}

		if v := p.DaemonVersion(); v != nil {
			m.Policy["daemon-version"] = v.String()
		}
	}

	return util.JSON.Marshal(m)
}
