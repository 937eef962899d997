package browser

import (
	"fmt"
	"net"
	"net/http"
)

// Serve starts a static file server for dir on an ephemeral localhost
// port and returns the base URL plus a shutdown func. The shutdown func
// closes the listener and any open connections.
func Serve(dir string) (string, func(), error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("listen: %w", err)
	}

	srv := &http.Server{Handler: http.FileServer(http.Dir(dir))}
	go srv.Serve(ln)

	shutdown := func() { srv.Close() }
	return "http://" + ln.Addr().String(), shutdown, nil
}
