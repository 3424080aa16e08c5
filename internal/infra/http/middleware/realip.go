package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedRealIP reescreve o RemoteAddr com o IP do cliente só quando a conexão vem
// de um proxy confiável. Sem proxies configurados os headers são ignorados e vale o
// endereço do socket, senão qualquer um troca de IP mandando X-Forwarded-For.
func TrustedRealIP(proxies []netip.Prefix) func(http.Handler) http.Handler {
	trusted := func(addr netip.Addr) bool {
		for _, p := range proxies {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			peer, ok := parseAddr(clientIP(r))
			if ok && trusted(peer) {
				if ip, found := forwardedClient(r.Header, trusted); found {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// forwardedClient percorre o X-Forwarded-For da direita para a esquerda e para no
// primeiro salto que não é proxy nosso. X-Real-IP só entra quando não há XFF.
func forwardedClient(h http.Header, trusted func(netip.Addr) bool) (netip.Addr, bool) {
	var hops []string
	for _, v := range h.Values("X-Forwarded-For") {
		hops = append(hops, strings.Split(v, ",")...)
	}

	for i := len(hops) - 1; i >= 0; i-- {
		addr, ok := parseAddr(strings.TrimSpace(hops[i]))
		if !ok {
			return netip.Addr{}, false
		}
		if !trusted(addr) {
			return addr, true
		}
	}
	if len(hops) > 0 {
		return netip.Addr{}, false
	}

	return parseAddr(strings.TrimSpace(h.Get("X-Real-IP")))
}

func parseAddr(s string) (netip.Addr, bool) {
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
