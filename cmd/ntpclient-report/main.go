package main

import (
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/AndrewLester/ntpclient/pkg/ntp"
	"github.com/AndrewLester/ntpclient/pkg/query"
)

func main() {
	port := os.Getenv("REPORT_PORT")
	if port == "" {
		port = "8080"
	}
	host := os.Getenv("REPORT_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	servers := os.Getenv("REPORT_SERVERS")
	if servers == "" {
		servers = query.DefaultServer
	}

	server := &reportServer{
		clock: ntp.SystemClock{},
		query: query.Query,
		options: query.Options{
			Timeout: query.DefaultTimeout,
		},
		allowed: parseAllowList(servers),
	}

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           server.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Println("listening on", httpServer.Addr)
	log.Fatal(httpServer.ListenAndServe())
}
