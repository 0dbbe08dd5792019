// Smoke test against a running server: POSTs a trip description and checks
// the artifact shape. Needs live LLM and AMap credentials behind the server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	baseURL = "http://localhost:8080"
)

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Liveness...")
	if !sendRequest("GET", "/", nil) {
		fmt.Println("FAILED: Liveness")
		os.Exit(1)
	}
	fmt.Println("PASSED: Liveness")

	fmt.Println("2. Processing trip text...")
	payload := map[string]string{
		"text": "从北京出发，经过上海，最后到达广州",
	}
	if !sendRequest("POST", "/process-text", payload) {
		fmt.Println("FAILED: Process text")
		os.Exit(1)
	}
	fmt.Println("PASSED: Process text")

	fmt.Println("3. Single-place text (no route expected)...")
	payload = map[string]string{
		"text": "我今天去了杭州西湖",
	}
	if !sendRequest("POST", "/process-text", payload) {
		fmt.Println("FAILED: Single place")
		os.Exit(1)
	}
	fmt.Println("PASSED: Single place")
}

func sendRequest(method, endpoint string, payload interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Response: %s\n", string(respBody))

	return true
}
