package middleware

import (
	"fmt"
	"net"

	"github.com/labstack/echo/v4"
)

// ClientIPExtractor decides where c.RealIP() comes from. Without trusted
// proxies it is the TCP peer; forwarding headers are ignored. With proxies
// only hops inside the given CIDRs may speak for the client through
// X-Forwarded-For.
func ClientIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}
