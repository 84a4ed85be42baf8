//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:3000")

func TestSystem_ProductLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var products []map[string]any
	doJSON(t, http.MethodGet, baseURL+"/api/products", nil, &products, http.StatusOK)

	name := fmt.Sprintf("e2e_%d", time.Now().UnixNano())

	var created map[string]any
	doJSON(t, http.MethodPost, baseURL+"/api/products", map[string]any{
		"name":  name,
		"price": 42,
	}, &created, http.StatusCreated)

	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("product id missing: %#v", created)
	}
	if created["category"] != "miscellaneous" || created["inStock"] != true {
		t.Fatalf("defaults not applied: %#v", created)
	}

	var updated map[string]any
	doJSON(t, http.MethodPut, baseURL+"/api/products/"+id, map[string]any{"price": 999}, &updated, http.StatusOK)
	if updated["name"] != name || updated["price"] != float64(999) || updated["id"] != id {
		t.Fatalf("update result: %#v", updated)
	}

	doJSON(t, http.MethodDelete, baseURL+"/api/products/"+id, nil, nil, http.StatusOK)
	doJSON(t, http.MethodDelete, baseURL+"/api/products/"+id, nil, nil, http.StatusNotFound)
	doJSON(t, http.MethodGet, baseURL+"/api/products/"+id, nil, nil, http.StatusNotFound)
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == http.StatusOK {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func doJSON(t *testing.T, method, url string, body any, out any, want int) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("%s %s: status=%d want=%d", method, url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
