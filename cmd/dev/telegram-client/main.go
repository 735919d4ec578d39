package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/garnizeh/quartermaster/internal/platform/telegram"
)

// set to a real channel id before running
const chatID = int64(0)

var defaultClient = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 15 * time.Second,
			DualStack: true,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

func main() {
	ctx := context.Background()

	token := os.Getenv("QM_TELEGRAM_TOKEN")
	if token == "" {
		log.Fatal("QM_TELEGRAM_TOKEN is not set")
	}

	client, err := telegram.NewWithClient(token, tgbotapi.APIEndpoint, true, defaultClient, nil)
	if err != nil {
		log.Fatal(err)
	}

	if err := post(ctx, client); err != nil {
		log.Fatal(err)
	}
}

// posts a test message to the configured chat and removes it again
func post(ctx context.Context, client *telegram.Client) error {
	ref, err := client.Post(ctx, chatID, "quartermaster connectivity check")
	if err != nil {
		return err
	}
	fmt.Printf("posted message %d\n", ref)

	return client.Delete(ctx, chatID, ref)
}
