package main

import (
	"flag"
	"log"
	"net/http"

	"boundedq/internal/queue"
	"boundedq/internal/queueapi"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	capacity := flag.Int("capacity", 64, "capacity of each named queue")
	flag.Parse()

	registry, err := queue.NewRegistry(*capacity)
	if err != nil {
		log.Fatalf("invalid capacity %d: %v", *capacity, err)
	}

	server := &http.Server{
		Addr:    *addr,
		Handler: queueapi.RegisterRoutes(registry),
	}

	log.Printf("queue service listening on %s (capacity %d)", *addr, *capacity)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
