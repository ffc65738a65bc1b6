package main

import (
	"context"
	"fmt"
	"os"

	"github.com/warelay/autoreply-bridge/internal/infra/wabridge"
)

func main() {
	apiURL := os.Getenv("BRIDGE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	if len(os.Args) < 3 {
		fmt.Println("Usage: send-message <recipient_jid> <message>")
		os.Exit(1)
	}

	recipient := os.Args[1]
	message := os.Args[2]

	// Send-only client; the message store is not opened
	client := wabridge.NewClient(wabridge.Config{APIURL: apiURL})

	if err := client.SendText(context.Background(), recipient, message); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Message sent successfully!")
}
