// sahayak is a terminal client for the assistant API, useful for exercising
// the conversation flow without the voice frontend.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"
)

var (
	serverURL = flag.String("server", "http://localhost:8080", "Base URL of the SmartBharat backend")
	language  = flag.String("language", "hi", "Assistant language code (hi, en, bn, mr, ta, te)")
)

type session struct {
	ID string `json:"id"`
}

type message struct {
	Text   string `json:"text"`
	IsUser bool   `json:"isUser"`
}

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nShutting down...")
		cancel()
		os.Exit(0)
	}()

	httpClient := &http.Client{Timeout: 30 * time.Second}

	sess, greeting, err := createSession(ctx, httpClient)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create session: %v\n", err)
		os.Exit(1)
	}

	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Println(boldGreen("SmartBharat Sahayak"))
	fmt.Printf("Session: %s (language=%s)\n", sess.ID, *language)
	fmt.Println("Type your message and press Enter. Type 'exit' or press Ctrl+C to quit.")
	fmt.Println()
	if greeting != "" {
		fmt.Printf("%s %s\n", boldCyan("Sahayak:"), greeting)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(boldGreen("You: "))
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		reply, err := submitTranscript(ctx, httpClient, sess.ID, input)
		if err != nil {
			color.Red("error: %v", err)
			continue
		}
		fmt.Printf("%s %s\n", boldCyan("Sahayak:"), reply)
	}
}

func createSession(ctx context.Context, httpClient *http.Client) (session, string, error) {
	body, _ := json.Marshal(map[string]string{"language": *language})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, *serverURL+"/api/session", bytes.NewReader(body))
	if err != nil {
		return session{}, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := httpClient.Do(req)
	if err != nil {
		return session{}, "", err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusCreated {
		return session{}, "", fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var sess session
	if err := json.NewDecoder(res.Body).Decode(&sess); err != nil {
		return session{}, "", err
	}

	greeting, err := fetchGreeting(ctx, httpClient, sess.ID)
	if err != nil {
		// The greeting is cosmetic; keep going without it.
		greeting = ""
	}
	return sess, greeting, nil
}

func fetchGreeting(ctx context.Context, httpClient *http.Client, sessionID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/session/%s/messages", *serverURL, sessionID), nil)
	if err != nil {
		return "", err
	}

	res, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var payload struct {
		Messages []message `json:"messages"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload.Messages) == 0 {
		return "", nil
	}
	return payload.Messages[0].Text, nil
}

func submitTranscript(ctx context.Context, httpClient *http.Client, sessionID, text string) (string, error) {
	body, _ := json.Marshal(map[string]string{"text": text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/api/session/%s/transcript", *serverURL, sessionID), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = res.Body.Close() }()

	var payload struct {
		Reply message `json:"reply"`
		Error string  `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server: %s", payload.Error)
	}
	return payload.Reply.Text, nil
}
