// Package web holds HTTP request plumbing shared by the catalog client and
// the player prober.
package web

import (
	"math/rand/v2"
	"sync/atomic"
)

// Desktop browsers only: the catalog and player hosts serve reduced mobile
// layouts otherwise.
var desktopAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:130.0) Gecko/20100101 Firefox/130.0",
	"Mozilla/5.0 (X11; Linux x86_64; rv:129.0) Gecko/20100101 Firefox/129.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36 Edg/129.0.0.0",
}

var next atomic.Uint64

// NextUserAgent cycles through desktopAgents, jumping to a random one on
// roughly one call in five.
func NextUserAgent() string {
	n := uint64(len(desktopAgents))
	if rand.N(5) == 0 {
		return desktopAgents[rand.N(n)]
	}
	return desktopAgents[next.Add(1)%n]
}

// DesktopAgents returns a copy of the rotation list.
func DesktopAgents() []string {
	return append([]string(nil), desktopAgents...)
}
