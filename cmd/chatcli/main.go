// File: cmd/chatcli/main.go
// A minimal terminal client for the chat backend: reads questions from
// stdin and prints replies, standing in for the browser UI during
// development.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"health-advisory-chat/internal/client"
)

func main() {
	addr := flag.String("addr", "http://localhost:5000", "chat backend base URL")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	rc, err := client.NewReplyClient(*addr, &logger)
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	fmt.Println("Health advisory chat. Type a question, or /quit to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return
		}
		fmt.Println(rc.GetReply(context.Background(), line))
	}
}
