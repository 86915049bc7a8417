package config

import (
	"math"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"

	"github.com/MNPJason/MNPCoin-PolisCore/masternode"
)

type Policy interface {
	MinProtocolVersion() int32
	SetMinProtocolVersion(int32) error
	CollateralAmount() int64
	SetCollateralAmount(int64) error
	MinConfirmations() int32
	SetMinConfirmations(int32) error
	SentinelPingRequired() bool
	SetSentinelPingRequired(bool) error
	DefaultPort() uint16
	SetDefaultPort(uint16) error
	SentinelVersion() *semver.Version
	SetSentinelVersion(string) error
	DaemonVersion() *semver.Version
	SetDaemonVersion(string) error
}

// BasePolicy keeps the zero values for the unset ones; checker fills them
// with the mainnet defaults.
type BasePolicy struct {
	minProtocolVersion   int32
	collateralAmount     int64
	minConfirmations     int32
	sentinelPingRequired *bool
	defaultPort          uint16
	sentinelVersion      *semver.Version
	daemonVersion        *semver.Version
}

func (no BasePolicy) MinProtocolVersion() int32 {
	return no.minProtocolVersion
}

func (no *BasePolicy) SetMinProtocolVersion(i int32) error {
	if i < 1 {
		return errors.Errorf("invalid min protocol version, %d", i)
	}

	no.minProtocolVersion = i

	return nil
}

func (no BasePolicy) CollateralAmount() int64 {
	return no.collateralAmount
}

func (no *BasePolicy) SetCollateralAmount(i int64) error {
	if i < 1 {
		return errors.Errorf("invalid collateral amount, %d", i)
	}

	no.collateralAmount = i

	return nil
}

func (no BasePolicy) MinConfirmations() int32 {
	return no.minConfirmations
}

func (no *BasePolicy) SetMinConfirmations(i int32) error {
	if i < 1 {
		return errors.Errorf("invalid min confirmations, %d", i)
	}

	no.minConfirmations = i

	return nil
}

func (no BasePolicy) SentinelPingRequired() bool {
	if no.sentinelPingRequired == nil {
		return false
	}

	return *no.sentinelPingRequired
}

func (no *BasePolicy) SetSentinelPingRequired(b bool) error {
	no.sentinelPingRequired = &b

	return nil
}

func (no BasePolicy) DefaultPort() uint16 {
	return no.defaultPort
}

func (no *BasePolicy) SetDefaultPort(p uint16) error {
	if p < 1 {
		return errors.Errorf("invalid default port, %d", p)
	}

	no.defaultPort = p

	return nil
}

func (no BasePolicy) SentinelVersion() *semver.Version {
	return no.sentinelVersion
}

func (no *BasePolicy) SetSentinelVersion(s string) error {
	v, err := parseVersion(s)
	if err != nil {
		return err
	}

	if v.Major() > math.MaxUint8 || v.Minor() > math.MaxUint8 || v.Patch() > math.MaxUint8 {
		return errors.Errorf("too big sentinel version, %q", s)
	}

	no.sentinelVersion = v

	return nil
}

func (no BasePolicy) DaemonVersion() *semver.Version {
	return no.daemonVersion
}

func (no *BasePolicy) SetDaemonVersion(s string) error {
	v, err := parseVersion(s)
	if err != nil {
		return err
	}

	if v.Major() > 4000 || v.Minor() > 99 || v.Patch() > 99 {
		return errors.Errorf("too big daemon version, %q", s)
	}

	no.daemonVersion = v

	return nil
}

// SentinelVersionNumber encodes the version like 1.2.3 to 0x010203, the form
// of the sentinel version in ping.
func SentinelVersionNumber(v *semver.Version) uint32 {
	if v == nil {
		return masternode.DefaultSentinelVersion
	}

	return uint32(v.Major())<<16 | uint32(v.Minor())<<8 | uint32(v.Patch())
}

// DaemonVersionNumber encodes the version like 1.4.0 to 1040000, the form of
// the daemon version in ping.
func DaemonVersionNumber(v *semver.Version) uint32 {
	if v == nil {
		return masternode.DefaultDaemonVersion
	}

	return uint32(v.Major())*1000000 + uint32(v.Minor())*10000 + uint32(v.Patch())*100
}
