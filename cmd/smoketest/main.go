// Command smoketest probes a running travel backend: health, the
// destinations catalog, and a full register/login round trip with a
// throwaway account.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func main() {
	baseURL := flag.String("base-url", "http://localhost:5000", "backend base URL")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	client := &http.Client{Timeout: 10 * time.Second}

	failed := false
	check := func(name string, err error) {
		if err != nil {
			slog.Error(name, "error", err)
			failed = true
			return
		}
		slog.Info(name, "status", "ok")
	}

	check("health", getJSON(client, *baseURL+"/health", nil))

	var list struct {
		Count int `json:"count"`
	}
	if err := getJSON(client, *baseURL+"/api/destinations", &list); err != nil {
		check("destinations", err)
	} else {
		slog.Info("destinations", "count", list.Count)
	}
	check("popular destinations", getJSON(client, *baseURL+"/api/destinations/popular", nil))
	check("destination by id", getJSON(client, *baseURL+"/api/destinations/1", nil))

	check("register and login", registerAndLogin(client, *baseURL))

	if failed {
		os.Exit(1)
	}
	slog.Info("all smoke checks passed")
}

func registerAndLogin(client *http.Client, baseURL string) error {
	username := fmt.Sprintf("smoketest_%d", time.Now().UnixNano())
	password := fmt.Sprintf("pw-%d", time.Now().UnixNano())

	registerBody := map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
		"name":     "Smoke Test",
	}
	if err := postJSON(client, baseURL+"/register", registerBody, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	var login struct {
		Token string `json:"token"`
	}
	loginBody := map[string]string{"username": username, "password": password}
	if err := postJSON(client, baseURL+"/login", loginBody, http.StatusOK, &login); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if login.Token == "" {
		return fmt.Errorf("login response missing token")
	}

	req, err := http.NewRequest(http.MethodGet, baseURL+"/profile", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("profile: status %d", resp.StatusCode)
	}
	return nil
}

func getJSON(client *http.Client, url string, data any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return decodeData(resp, data)
}

func postJSON(client *http.Client, url string, body any, wantStatus int, data any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("status %d, want %d", resp.StatusCode, wantStatus)
	}
	return decodeData(resp, data)
}

func decodeData(resp *http.Response, data any) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("server reported failure: %s", env.Message)
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
