// Package keepalive pings the service's own public URL on an interval so
// free-tier hosts do not spin the instance down while staff are between
// bookings.
package keepalive

import (
	"log"
	"net/http"
	"time"
)

const (
	startDelay   = 30 * time.Second // give the server time to fully start
	pingInterval = 9 * time.Minute  // just under typical idle timeouts
	pingTimeout  = 10 * time.Second
)

// Start launches the keep-alive loop in a goroutine.  It does nothing
// when url is empty.  The first ping fires after a short delay and the
// loop never stops; outcomes are logged either way.
func Start(url string) {
	if url == "" {
		return
	}
	client := &http.Client{Timeout: pingTimeout}
	go func() {
		time.Sleep(startDelay)
		for {
			ping(client, url)
			time.Sleep(pingInterval)
		}
	}()
	log.Printf("keepalive: will ping %s every %s", url, pingInterval)
}

func ping(client *http.Client, url string) {
	resp, err := client.Get(url)
	if err != nil {
		log.Printf("keepalive: ping failed: %v", err)
		return
	}
	defer resp.Body.Close()
	log.Printf("keepalive: pinged with response status code %d", resp.StatusCode)
}
