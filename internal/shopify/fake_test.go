package shopify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"seo-optimizer/internal/config"

	"go.uber.org/zap"
)

const testAccessToken = "shpat_test"

// fakeAdminAPI is an in-memory stand-in for the Admin GraphQL endpoint
type fakeAdminAPI struct {
	mu       sync.Mutex
	products []map[string]any // newest last, like creation order
	calls    int
}

func (f *fakeAdminAPI) addProduct(gid, title, status, descriptionHTML, imageURL string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var image any
	if imageURL != "" {
		image = map[string]any{"url": imageURL}
	}
	f.products = append(f.products, map[string]any{
		"id":              gid,
		"title":           title,
		"status":          status,
		"descriptionHtml": descriptionHTML,
		"featuredImage":   image,
	})
}

func (f *fakeAdminAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if r.Header.Get("X-Shopify-Access-Token") != testAccessToken {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":"[API] Invalid API key or access token"}`))
		return
	}

	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var data any
	switch {
	case strings.Contains(req.Query, "productUpdate"):
		data = f.update(req.Variables["input"].(map[string]any))
	case strings.Contains(req.Query, "products("):
		first := int(req.Variables["first"].(float64))
		data = f.list(first)
	case strings.Contains(req.Query, "product("):
		data = map[string]any{"product": f.find(req.Variables["id"].(string))}
	default:
		writeJSON(w, map[string]any{"errors": []map[string]any{{"message": "unknown operation"}}})
		return
	}

	writeJSON(w, map[string]any{"data": data})
}

func (f *fakeAdminAPI) list(first int) map[string]any {
	edges := []map[string]any{}
	for i := len(f.products) - 1; i >= 0 && len(edges) < first; i-- {
		p := f.products[i]
		edges = append(edges, map[string]any{"node": map[string]any{
			"id":            p["id"],
			"title":         p["title"],
			"status":        p["status"],
			"featuredImage": p["featuredImage"],
		}})
	}
	return map[string]any{"products": map[string]any{"edges": edges}}
}

func (f *fakeAdminAPI) find(gid string) map[string]any {
	for _, p := range f.products {
		if p["id"] == gid {
			return p
		}
	}
	return nil
}

func (f *fakeAdminAPI) update(input map[string]any) map[string]any {
	result := func(product any, userErrors []map[string]any) map[string]any {
		return map[string]any{"productUpdate": map[string]any{"product": product, "userErrors": userErrors}}
	}

	product := f.find(input["id"].(string))
	if product == nil {
		return result(nil, []map[string]any{{"field": []string{"id"}, "message": "Product does not exist"}})
	}

	title := input["title"].(string)
	if len(title) > 255 {
		return result(nil, []map[string]any{{"field": []string{"title"}, "message": "Title is too long (maximum is 255 characters)"}})
	}

	product["title"] = title
	product["descriptionHtml"] = input["descriptionHtml"]
	return result(product, []map[string]any{})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// newTestClient starts a fake Admin API and a client pointed at it
func newTestClient(t *testing.T, token string) (*Client, *fakeAdminAPI) {
	t.Helper()

	fake := &fakeAdminAPI{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := NewClient(config.ShopifyConfig{
		ShopDomain:        srv.URL,
		AccessToken:       token,
		APIVersion:        "2024-10",
		RequestsPerSecond: 1000,
	}, zap.NewNop())

	return client, fake
}
