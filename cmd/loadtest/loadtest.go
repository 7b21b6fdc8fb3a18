// Command loadtest connects a number of websocket clients to a running
// server, sends messages from each and checks every client saw every
// response.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/johndosdos/chatrelay/internal/model"
)

func main() {
	endpoint := flag.String("url", "ws://localhost:8080/ws", "websocket endpoint")
	clients := flag.Int("clients", 10, "number of connected clients")
	messages := flag.Int("messages", 5, "messages sent by each client")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conns := make([]*websocket.Conn, *clients)
	for i := range conns {
		conn, _, err := websocket.Dial(ctx, *endpoint, nil)
		if err != nil {
			log.Fatalf("failed to connect client %d to [%s]: %v", i, *endpoint, err)
		}
		defer conn.Close(websocket.StatusNormalClosure, "done")
		conns[i] = conn
	}

	// Let the server register everyone before the first message.
	time.Sleep(200 * time.Millisecond)

	want := *clients * *messages
	received := make([]int, *clients)

	var wg sync.WaitGroup
	for i, conn := range conns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for received[i] < want {
				var ev model.Event
				if err := wsjson.Read(ctx, conn, &ev); err != nil {
					log.Printf("client %d: read failed after %d responses: %v", i, received[i], err)
					return
				}
				if ev.Name == model.EventResponse {
					received[i]++
				}
			}
		}()
	}

	start := time.Now()
	for n := range *messages {
		for i, conn := range conns {
			ev, err := model.NewEvent(model.EventMessage, model.Payload{
				Nickname: fmt.Sprintf("client-%d", i),
				Message:  fmt.Sprintf("message %d", n),
				Date:     time.Now().UTC().Format(time.RFC3339),
			})
			if err != nil {
				log.Fatalf("failed to encode event: %v", err)
			}
			if err := wsjson.Write(ctx, conn, ev); err != nil {
				log.Fatalf("client %d: write failed: %v", i, err)
			}
		}
	}

	wg.Wait()

	failed := 0
	for i, n := range received {
		if n != want {
			failed++
			log.Printf("client %d: got %d of %d responses", i, n, want)
		}
	}

	log.Printf("%d clients, %d messages each, %d responses expected per client, took %s",
		*clients, *messages, want, time.Since(start))
	if failed > 0 {
		log.Fatalf("%d clients missed responses", failed)
	}
}
