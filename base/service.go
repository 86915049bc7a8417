package base

import (
	"net"
	"strconv"

	"github.com/pkg/errors"

	binenc "github.com/MNPJason/MNPCoin-PolisCore/util/encoder/binary"
)

// Service is the network address of a masternode.
type Service struct {
	IP   net.IP
	Port uint16
}

func NewService(ip net.IP, port uint16) Service {
	return Service{IP: ip, Port: port}
}

func ParseService(s string) (Service, error) {
	host, p, err := net.SplitHostPort(s)
	if err != nil {
		return Service{}, errors.Wrapf(err, "invalid service, %q", s)
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return Service{}, errors.Errorf("invalid ip of service, %q", s)
	}

	port, err := strconv.ParseUint(p, 10, 16)
	if err != nil {
		return Service{}, errors.Wrapf(err, "invalid port of service, %q", s)
	}

	return NewService(ip, uint16(port)), nil
}

func (sv Service) String() string {
	if sv.IP == nil {
		return net.JoinHostPort("::", strconv.FormatUint(uint64(sv.Port), 10))
	}

	return net.JoinHostPort(sv.IP.String(), strconv.FormatUint(uint64(sv.Port), 10))
}

func (sv Service) IsIPv4() bool {
	return sv.IP != nil && sv.IP.To4() != nil
}

// IsRoutable reports whether the address is reachable from the public
// internet.
func (sv Service) IsRoutable() bool {
	switch ip := sv.IP; {
	case ip == nil,
		ip.IsUnspecified(),
		ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsLinkLocalUnicast(),
		ip.IsMulticast(),
		ip.IsInterfaceLocalMulticast():
		return false
	default:
		return true
	}
}

func (sv Service) Equal(b Service) bool {
	return sv.Port == b.Port && sv.IP.Equal(b.IP)
}

func (sv Service) EncodeBinary(w *binenc.Writer) {
	ip := sv.IP.To16()
	if ip == nil {
		ip = make(net.IP, net.IPv6len)
	}

	w.Write(ip)
	w.Uint16BE(sv.Port)
}

func (sv *Service) DecodeBinary(r *binenc.Reader) {
	ip := make(net.IP, net.IPv6len)
	r.Read(ip)

	sv.IP = ip
	sv.Port = r.Uint16BE()
}
