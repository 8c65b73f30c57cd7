package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/wichananm65/menu-assistant/internal/chat"
	"github.com/wichananm65/menu-assistant/internal/config"
	"github.com/wichananm65/menu-assistant/internal/logging"
)

// main asks the recommendation service one question from the terminal and
// prints the answer with the suggested dishes. Useful for checking a
// CHAT_BASE_URL without the app.
func main() {
	query := flag.String("query", "", "question to ask")
	chatID := flag.String("chat-id", "", "continue an existing conversation")
	flag.Parse()

	if strings.TrimSpace(*query) == "" {
		fmt.Fprintln(os.Stderr, "usage: api -query \"what is spicy?\" [-chat-id ID]")
		os.Exit(2)
	}

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := chat.NewClient(chat.ClientConfig{
		BaseURL:        cfg.ChatBaseURL,
		SearchEngine:   cfg.ChatSearchEngine,
		PollInterval:   cfg.ChatPollInterval,
		MaxAttempts:    cfg.ChatMaxAttempts,
		RequestTimeout: cfg.ChatRequestTimeout,
	}, log)

	reply, err := client.Ask(ctx, *query, *chatID)
	if err != nil {
		log.WithError(err).Error("query failed")
		fmt.Println(chat.FailureMessage)
		os.Exit(1)
	}

	fmt.Println(reply.ResponseText)
	for _, it := range reply.Items {
		fmt.Printf("  - %s (%s)\n", it.Name, it.DisplayCost())
	}
	if reply.ChatID != "" {
		fmt.Printf("chat id: %s\n", reply.ChatID)
	}
}
