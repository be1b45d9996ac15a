// qdemo drives a bounded queue with one producer and one consumer thread.
// By default it exercises an in-process queue; with -queue-url it runs the
// same exchange against a running queue service.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"strconv"
	"sync"
	"time"

	"boundedq/internal/qclient"
	"boundedq/internal/queue"
)

type config struct {
	capacity   int
	queueURL   string
	queueName  string
	pushGap    time.Duration
	popGap     time.Duration
	popTimeout time.Duration
}

func parseConfig() config {
	var cfg config
	flag.IntVar(&cfg.capacity, "capacity", 2, "queue capacity")
	flag.StringVar(&cfg.queueURL, "queue-url", "", "queue service URL; empty runs in-process")
	flag.StringVar(&cfg.queueName, "queue", "demo", "queue name (remote mode)")
	flag.DurationVar(&cfg.pushGap, "push-gap", 100*time.Millisecond, "delay between pushes")
	flag.DurationVar(&cfg.popGap, "pop-gap", 150*time.Millisecond, "delay before each pop")
	flag.DurationVar(&cfg.popTimeout, "pop-timeout", 200*time.Millisecond, "timeout for the final pop")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseConfig()
	if cfg.queueURL != "" {
		runRemote(cfg)
		return
	}
	runLocal(cfg)
}

// runLocal shares one queue between a writer and a reader goroutine. With the
// default pacing the writer overruns the capacity-2 queue while the reader
// sleeps, so one element is dropped, and the final timed pop expires before
// the writer is done.
func runLocal(cfg config) {
	q, err := queue.New[int](cfg.capacity)
	if err != nil {
		log.Fatalf("invalid capacity %d: %v", cfg.capacity, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 1; i <= 5; i++ {
			q.Push(i)
			log.Printf("Push(%d)", i)
			time.Sleep(cfg.pushGap)
		}
	}()

	go func() {
		defer wg.Done()
		time.Sleep(cfg.popGap)
		log.Printf("Pop() -> %d", q.Pop())
		time.Sleep(cfg.popGap)
		log.Printf("Pop() -> %d", q.Pop())
		time.Sleep(cfg.popGap)
		v, err := q.PopWithTimeout(cfg.popTimeout)
		if err != nil {
			log.Printf("PopWithTimeout(%s) -> %v", cfg.popTimeout, err)
			return
		}
		log.Printf("PopWithTimeout(%s) -> %d", cfg.popTimeout, v)
	}()

	wg.Wait()
	log.Printf("done: %d element(s) left in queue", q.Count())
}

// runRemote performs the same exchange through the HTTP client.
func runRemote(cfg config) {
	client := qclient.New(cfg.queueURL, cfg.queueName)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 1; i <= 5; i++ {
			if err := client.Push(ctx, []byte(strconv.Itoa(i))); err != nil {
				log.Printf("push %d: %v", i, err)
				return
			}
			log.Printf("Push(%d)", i)
			time.Sleep(cfg.pushGap)
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 3; i++ {
			time.Sleep(cfg.popGap)
			msg, err := client.Pop(ctx, cfg.popTimeout)
			if errors.Is(err, queue.ErrTimeout) {
				log.Printf("Pop -> %v", err)
				continue
			}
			if err != nil {
				log.Printf("pop: %v", err)
				return
			}
			log.Printf("Pop -> %s", msg)
		}
	}()

	wg.Wait()

	count, capacity, err := client.Stats(ctx)
	if err != nil {
		log.Fatalf("stats: %v", err)
	}
	log.Printf("done: %d/%d element(s) left in queue", count, capacity)
}
