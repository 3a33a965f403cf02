package catalog

import (
	"fmt"
	"net"
	"time"

	srv2 "github.com/elastic/go-lumber/server/v2"
)

// LoadFromLumberjack starts a lumberjack v2 server on addr and builds a
// Catalog from the (id, uri) documents delivered by whatever feeds the
// catalog over the network, the network-delivered counterpart to the
// in-process Build above.
//
// Each received document is expected to carry an "id" (number) and a "uri"
// (string) field, matching the shape of Entry. The server stops and the
// collected entries are shaped into a Catalog once idle (no batch received)
// for longer than idleTimeout.
func LoadFromLumberjack(addr string, idleTimeout time.Duration) (*Catalog, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to listen on %s: %w", addr, err)
	}

	srv, err := srv2.NewWithListener(ln, srv2.Timeout(idleTimeout))
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("catalog: failed to start lumberjack server: %w", err)
	}
	defer srv.Close()

	var entries []Entry
	for {
		select {
		case batch, ok := <-srv.ReceiveChan():
			if !ok {
				return Build(entries), nil
			}
			for _, evt := range batch.Events {
				if e, ok := decodeEntry(evt); ok {
					entries = append(entries, e)
				}
			}
			batch.ACK()
		case <-time.After(idleTimeout):
			return Build(entries), nil
		}
	}
}

// decodeEntry extracts an Entry from one lumberjack event document.
func decodeEntry(evt interface{}) (Entry, bool) {
	m, ok := evt.(map[string]interface{})
	if !ok {
		return Entry{}, false
	}
	uri, ok := m["uri"].(string)
	if !ok {
		return Entry{}, false
	}
	var id int
	switch v := m["id"].(type) {
	case float64:
		id = int(v)
	case int:
		id = v
	case int64:
		id = int(v)
	default:
		return Entry{}, false
	}
	return Entry{ID: id, URI: uri}, true
}
