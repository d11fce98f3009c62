package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the profiler service")
	mode := flag.String("mode", "smoke", "Mode: smoke (scripted intake flow) or chat (interactive)")
	flag.Parse()

	client := NewClient(*baseURL)

	printHeader("Wealth Risk Profiler - Client")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, *baseURL, colorReset)

	switch *mode {
	case "smoke":
		if !client.runSmokeFlow() {
			os.Exit(1)
		}
	case "chat":
		client.runInteractive()
	default:
		printError(fmt.Sprintf("Unknown mode: %s", *mode))
		os.Exit(1)
	}
}

// runSmokeFlow drives a full scripted intake: start session, answer the
// six questions, confirm, then download the report.
func (c *Client) runSmokeFlow() bool {
	if !c.checkHealth() {
		return false
	}

	clientID, ok := c.startSession()
	if !ok {
		return false
	}

	turns := []string{
		"Hi, I'm 28 years old.",
		"I plan to invest for about 30 years.",
		"I'd say my risk tolerance is aggressive.",
		"My main goal is wealth building.",
		"My annual income is 120000.",
		"I have about 50000 in existing investments.",
		"Yes, that all looks correct. Please proceed.",
	}

	for _, turn := range turns {
		if !c.sendTurn(clientID, turn) {
			return false
		}
	}

	return c.downloadReport(clientID)
}

func (c *Client) checkHealth() bool {
	printStep("Health check")
	resp, err := c.client.Get(c.baseURL + "/health")
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		return false
	}
	printSuccess("Service is up")
	printJSON(body)
	return true
}

func (c *Client) startSession() (string, bool) {
	printStep("Starting session")
	resp, err := c.client.Post(c.baseURL+"/api/session/start", "application/json", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return "", false
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d: %s", resp.StatusCode, string(body)))
		return "", false
	}

	var session struct {
		ClientID string `json:"client_id"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(body, &session); err != nil || session.ClientID == "" {
		printError("Invalid session response")
		return "", false
	}
	printSuccess("Session " + session.ClientID)
	printAssistant(session.Message)
	return session.ClientID, true
}

func (c *Client) sendTurn(clientID, content string) bool {
	fmt.Printf("%syou>%s %s\n", colorCyan, colorReset, content)

	payload, _ := json.Marshal(map[string]string{"content": content})
	resp, err := c.client.Post(
		fmt.Sprintf("%s/api/chat/%s", c.baseURL, clientID),
		"application/json", bytes.NewBuffer(payload))
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d: %s", resp.StatusCode, string(body)))
		return false
	}

	var turn struct {
		Message         string `json:"message"`
		ProfileComplete bool   `json:"profile_complete"`
		Status          string `json:"status"`
	}
	if err := json.Unmarshal(body, &turn); err != nil {
		printError("Invalid turn response")
		return false
	}
	printAssistant(turn.Message)
	fmt.Printf("%s[status: %s]%s\n\n", colorYellow, turn.Status, colorReset)
	if turn.ProfileComplete {
		printSuccess("Profile complete")
	}
	return true
}

func (c *Client) downloadReport(clientID string) bool {
	printStep("Downloading report")
	resp, err := c.client.Get(fmt.Sprintf("%s/api/report/%s", c.baseURL, clientID))
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		return false
	}

	filename := fmt.Sprintf("risk_profile_%s.pdf", clientID)
	if err := os.WriteFile(filename, body, 0o644); err != nil {
		printError(fmt.Sprintf("Failed to save report: %v", err))
		return false
	}
	printSuccess(fmt.Sprintf("Saved %s (%d bytes)", filename, len(body)))
	return true
}

// runInteractive is a minimal terminal chat loop against a live server.
func (c *Client) runInteractive() {
	clientID, ok := c.startSession()
	if !ok {
		os.Exit(1)
	}
	fmt.Printf("%sType your answers; Ctrl-D to quit.%s\n\n", colorYellow, colorReset)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%syou>%s ", colorCyan, colorReset)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		c.sendTurn(clientID, line)
	}
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printStep(text string) {
	fmt.Printf("%s[STEP] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 60))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printAssistant(text string) {
	fmt.Printf("%sadvisor>%s %s\n", colorGreen, colorReset, text)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("%s\n", prettyJSON.String())
	}
}
