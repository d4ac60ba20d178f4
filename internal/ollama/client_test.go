package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDescribe(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("request path = %q, want /api/chat", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("cannot decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "A sunset over the beach\n"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	image := []byte("fake image bytes")

	text, err := client.Describe(context.Background(), "gemma3:4b", image)
	if err != nil {
		t.Fatalf("Describe() returned error: %v", err)
	}
	if text != "A sunset over the beach" {
		t.Errorf("Describe() = %q, want trimmed model output", text)
	}

	if got.Model != "gemma3:4b" {
		t.Errorf("request model = %q, want gemma3:4b", got.Model)
	}
	if got.Stream {
		t.Error("request must not ask for a streaming response")
	}
	if len(got.Messages) != 1 {
		t.Fatalf("request carries %d messages, want 1", len(got.Messages))
	}
	msg := got.Messages[0]
	if msg.Role != "user" {
		t.Errorf("message role = %q, want user", msg.Role)
	}
	if msg.Content != describePrompt {
		t.Errorf("message content is not the fixed instruction prompt")
	}
	if len(msg.Images) != 1 || msg.Images[0] != base64.StdEncoding.EncodeToString(image) {
		t.Error("message does not carry the base64 image payload")
	}
}

func TestDescribeModelNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error": `model "nope:7b" not found, try pulling it first`,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Describe(context.Background(), "nope:7b", []byte("img"))
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Describe() error = %v, want ErrModelNotFound", err)
	}
}

func TestDescribeEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: "   "}})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Describe(context.Background(), "gemma3:4b", []byte("img"))
	if !errors.Is(err, ErrInference) {
		t.Errorf("Describe() error = %v, want ErrInference", err)
	}
}

func TestDescribeMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Describe(context.Background(), "gemma3:4b", []byte("img"))
	if !errors.Is(err, ErrInference) {
		t.Errorf("Describe() error = %v, want ErrInference", err)
	}
}

func TestDescribeServiceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens on the address anymore

	client := NewClient(server.URL, time.Second)
	_, err := client.Describe(context.Background(), "gemma3:4b", []byte("img"))
	if !errors.Is(err, ErrConnection) {
		t.Errorf("Describe() error = %v, want ErrConnection", err)
	}
}

func TestDescribeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, 20*time.Millisecond)
	_, err := client.Describe(context.Background(), "gemma3:4b", []byte("img"))
	if !errors.Is(err, ErrConnection) {
		t.Errorf("Describe() error = %v, want ErrConnection on timeout", err)
	}
}

func TestCheck(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/version", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"version": "0.5.1"})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{
				{"name": "gemma3:4b"},
				{"name": "llava:latest"},
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	tests := []struct {
		model string
		found bool
	}{
		{"gemma3:4b", true},
		{"llava", true}, // untagged request matches any pulled tag
		{"mistral:7b", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			report, err := client.Check(context.Background(), tt.model)
			if err != nil {
				t.Fatalf("Check() returned error: %v", err)
			}
			if report.Version != "0.5.1" {
				t.Errorf("Version = %q, want 0.5.1", report.Version)
			}
			if len(report.Models) != 2 {
				t.Errorf("Models = %v, want both pulled tags", report.Models)
			}
			if report.ModelFound != tt.found {
				t.Errorf("ModelFound = %v, want %v", report.ModelFound, tt.found)
			}
		})
	}
}

func TestCheckServiceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NewServeMux())
	server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Check(context.Background(), "gemma3:4b")
	if !errors.Is(err, ErrConnection) {
		t.Errorf("Check() error = %v, want ErrConnection", err)
	}
}

func TestMatchesModel(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		want      bool
	}{
		{"gemma3:4b", "gemma3:4b", true},
		{"gemma3:4b", "gemma3", true},
		{"gemma3:4b", "gemma3:12b", false},
		{"llava:latest", "llava", true},
		{"llava-phi3:latest", "llava", false},
	}
	for _, tt := range tests {
		if got := matchesModel(tt.name, tt.requested); got != tt.want {
			t.Errorf("matchesModel(%q, %q) = %v, want %v", tt.name, tt.requested, got, tt.want)
		}
	}
}
