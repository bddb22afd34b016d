package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopeat/go-shopeat/pkg/shopping"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{Addr: ":0"})
}

func TestRootEndpoint(t *testing.T) {
	s := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "running" {
		t.Errorf("status = %q, want running", body["status"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.Store().Add(shopping.NewItem("milk"))

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Status        string `json:"status"`
		ShoppingItems int    `json:"shopping_items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("status = %q, want healthy", body.Status)
	}
	if body.ShoppingItems != 1 {
		t.Errorf("shopping_items = %d, want 1", body.ShoppingItems)
	}
}

func TestShoppingListRoundTrip(t *testing.T) {
	s := newTestServer(t)

	item := shopping.Item{Name: "Milk ", Quantity: 2, Category: "dairy"}
	payload, _ := json.Marshal(item)

	req, _ := http.NewRequest(http.MethodPost, "/api/shopping-list", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post status = %d, want 200", resp.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodGet, "/api/shopping-list", nil)
	resp, err = s.App().Test(req)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Items      []shopping.Item `json:"items"`
		TotalItems int             `json:"total_items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TotalItems != 1 {
		t.Fatalf("total_items = %d, want 1", body.TotalItems)
	}
	if body.Items[0].Name != "milk" {
		t.Errorf("name = %q, want normalized milk", body.Items[0].Name)
	}
	if body.Items[0].Quantity != 2 {
		t.Errorf("quantity = %d, want 2", body.Items[0].Quantity)
	}
}

func TestAddItemValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "not json"},
		{"missing name", `{"quantity": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/api/shopping-list", bytes.NewReader([]byte(tt.payload)))
			req.Header.Set("Content-Type", "application/json")
			resp, err := s.App().Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}

	if s.Store().Len() != 0 {
		t.Errorf("store length = %d, want 0", s.Store().Len())
	}
}
