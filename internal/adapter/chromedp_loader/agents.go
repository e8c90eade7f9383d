package chromedp_loader

import (
	"math/rand"
	"sync"
	"time"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
}

// userAgents hands out user agent strings for page loads.
type userAgents struct {
	mu     sync.Mutex
	agents []string
	rnd    *rand.Rand
}

func newUserAgents(agents []string) *userAgents {
	if len(agents) == 0 {
		agents = defaultUserAgents
	}
	return &userAgents{
		agents: agents,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Pick returns a random user agent from the list.
func (u *userAgents) Pick() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.agents[u.rnd.Intn(len(u.agents))]
}
