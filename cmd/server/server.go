package main

import (
	"net/http"
	"time"
)

// writeHeadroom is added to the store timeout so a handler that waits the
// full store budget still has time to write its 500.
const writeHeadroom = 5 * time.Second

func newHTTPServer(addr string, h http.Handler, storeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      storeTimeout + writeHeadroom,
		IdleTimeout:       60 * time.Second,
	}
}
