package kvikmyndir

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"
)

// TestClientSmoke exercises the full authenticate-then-fetch round trip
// against a live listings service, usually cmd/kvikmyndir-mock.
func TestClientSmoke(t *testing.T) {
	baseURL := os.Getenv("KVIKMYNDIR_URL")
	if baseURL == "" {
		t.Skip("KVIKMYNDIR_URL not provided")
	}
	creds := Credentials{
		Username: os.Getenv("KVIKMYNDIR_USERNAME"),
		Password: os.Getenv("KVIKMYNDIR_PASSWORD"),
	}
	client, err := NewClient(baseURL, creds, 3*time.Second, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	records, err := client.Movies(ctx, nil)
	if err != nil {
		t.Fatalf("fetch movies: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("expected at least one movie record")
	}
}
