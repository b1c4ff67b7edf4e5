package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "login":
		login(args)
	case "logout":
		logout()
	case "status":
		status()
	case "checkin":
		checkin()
	case "booking":
		booking()
	case "register":
		register(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`hotdesk CLI

Usage:
  hotdesk login -email <email> -password <password>
  hotdesk logout
  hotdesk status
  hotdesk checkin
  hotdesk booking
  hotdesk register -email <email> -password <password> [-rating <rating>]

Environment:
  HOTDESK_URL  server base URL (default http://localhost:8080)`)
}

func serverURL() string {
	if url := os.Getenv("HOTDESK_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func tokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hotdesk-token"
	}
	return filepath.Join(home, ".hotdesk", "token")
}

func saveToken(token string) error {
	path := tokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func loadToken() string {
	data, err := os.ReadFile(tokenPath())
	if err != nil {
		return ""
	}
	return string(data)
}

func login(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required")
		os.Exit(1)
	}

	body, _ := json.Marshal(map[string]string{"email": *email, "password": *password})
	resp, err := http.Post(serverURL()+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		printError(resp)
		os.Exit(1)
	}

	var result struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expiresAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		fmt.Fprintf(os.Stderr, "bad response: %v\n", err)
		os.Exit(1)
	}
	if err := saveToken(result.Token); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save token: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("logged in, token valid until %s\n", result.ExpiresAt)
}

func logout() {
	if err := os.Remove(tokenPath()); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to remove token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("logged out")
}

func status() {
	resp := authedRequest(http.MethodGet, "/status")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		printError(resp)
		os.Exit(1)
	}

	var result struct {
		CurrentVisitors int `json:"currentVisitors"`
		User            struct {
			ID        string  `json:"id"`
			Email     string  `json:"email"`
			Rating    float64 `json:"rating"`
			CheckedIn bool    `json:"checkedIn"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		fmt.Fprintf(os.Stderr, "bad response: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "EMAIL\tRATING\tCHECKED IN\tVISITORS\n")
	fmt.Fprintf(w, "%s\t%.1f\t%t\t%d\n", result.User.Email, result.User.Rating, result.User.CheckedIn, result.CurrentVisitors)
	w.Flush()
}

func checkin() {
	resp := authedRequest(http.MethodPost, "/checkin")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		printError(resp)
		os.Exit(1)
	}

	var result struct {
		CheckedIn bool    `json:"checkedIn"`
		Visitors  int     `json:"visitors"`
		Rating    float64 `json:"rating"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		fmt.Fprintf(os.Stderr, "bad response: %v\n", err)
		os.Exit(1)
	}

	if result.CheckedIn {
		fmt.Printf("checked in (%d visitors)\n", result.Visitors)
	} else {
		fmt.Printf("checked out, rating now %.1f (%d visitors)\n", result.Rating, result.Visitors)
	}
}

func booking() {
	resp := authedRequest(http.MethodPost, "/booking")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		printError(resp)
		os.Exit(1)
	}
	fmt.Println("booking access granted")
}

func register(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	rating := fs.Float64("rating", 0, "starting rating")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "email and password are required")
		os.Exit(1)
	}

	body, _ := json.Marshal(map[string]interface{}{
		"email":    *email,
		"password": *password,
		"rating":   *rating,
	})
	resp, err := http.Post(serverURL()+"/api/admin/register", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		printError(resp)
		os.Exit(1)
	}
	fmt.Printf("registered %s\n", *email)
}

func authedRequest(method, path string) *http.Response {
	token := loadToken()
	if token == "" {
		fmt.Fprintln(os.Stderr, "not logged in, run: hotdesk login")
		os.Exit(1)
	}

	req, err := http.NewRequest(method, serverURL()+path, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		os.Exit(1)
	}
	return resp
}

func printError(resp *http.Response) {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		fmt.Fprintf(os.Stderr, "error (%d): %s\n", resp.StatusCode, body.Error)
		return
	}
	fmt.Fprintf(os.Stderr, "error: status %d\n", resp.StatusCode)
}
