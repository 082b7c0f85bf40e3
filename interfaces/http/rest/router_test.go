package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"imagenet-browser/infrastructure/config"
	"imagenet-browser/infrastructure/di"
	"imagenet-browser/infrastructure/persistence/gormstore"
	"imagenet-browser/interfaces/http/rest"
	"imagenet-browser/interfaces/http/rest/handlers"
	"imagenet-browser/pkg/common"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Environment:  "test",
		StoreTimeout: 5 * time.Second,
		MaxPageSize:  100,
	}
	logger := zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gormstore.Open("sqlite", dsn)
	require.NoError(t, err)
	uow := gormstore.NewUnitOfWork(db)

	commandBus, err := di.ProvideCommandBus(uow, logger)
	require.NoError(t, err)
	queryBus, err := di.ProvideQueryBus(uow, logger)
	require.NoError(t, err)

	router := rest.NewRouter(cfg, logger,
		handlers.NewEntryHandler(),
		handlers.NewSynsetHandler(commandBus, queryBus, cfg, logger),
		handlers.NewImageHandler(commandBus, queryBus, cfg, logger),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var doc map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	return doc
}

func controlHref(t *testing.T, doc map[string]interface{}, relation string) string {
	t.Helper()
	controls, ok := doc["@controls"].(map[string]interface{})
	require.True(t, ok, "document has no @controls")
	ctrl, ok := controls[relation].(map[string]interface{})
	require.True(t, ok, "missing control %q", relation)
	href, _ := ctrl["href"].(string)
	return href
}

func createSynset(t *testing.T, server *httptest.Server, wnid string, words []string, gloss, parent string) {
	t.Helper()
	body := map[string]interface{}{"wnid": wnid, "words": words, "gloss": gloss}
	if parent != "" {
		body["parent_wnid"] = parent
	}
	resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/", body)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAPIEntryPoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, common.MasonMediaType, resp.Header.Get("Content-Type"))

	doc := decodeBody(t, resp)
	assert.Equal(t, "/api/synsets/", controlHref(t, doc, "imagenet_browser:synsetcollection"))
	assert.Equal(t, "/api/images/", controlHref(t, doc, "imagenet_browser:imagecollection"))
}

func TestSynsetLifecycle(t *testing.T) {
	server := newTestServer(t)

	t.Run("create", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/", map[string]interface{}{
			"wnid":  "n01440764",
			"words": []string{"tench", "Tinca tinca"},
			"gloss": "freshwater dace-like game fish",
		})
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "/api/synsets/n01440764/", resp.Header.Get("Location"))
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/", map[string]interface{}{
			"wnid":  "n01440764",
			"words": []string{"tench"},
			"gloss": "again",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("get", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/synsets/n01440764/")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		doc := decodeBody(t, resp)
		assert.Equal(t, "n01440764", doc["wnid"])
		assert.Equal(t, []interface{}{"tench", "Tinca tinca"}, doc["words"])
		assert.Equal(t, "freshwater dace-like game fish", doc["gloss"])
		// Childless, so the delete affordance is present.
		assert.NotEmpty(t, controlHref(t, doc, "imagenet_browser:delete"))
	})

	t.Run("update", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, server.URL+"/api/synsets/n01440764/", map[string]interface{}{
			"words": []string{"tench"},
			"gloss": "updated gloss",
		})
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		getResp, err := http.Get(server.URL + "/api/synsets/n01440764/")
		require.NoError(t, err)
		doc := decodeBody(t, getResp)
		assert.Equal(t, "updated gloss", doc["gloss"])
	})

	t.Run("delete", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/synsets/n01440764/", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		getResp, err := http.Get(server.URL + "/api/synsets/n01440764/")
		require.NoError(t, err)
		getResp.Body.Close()
		assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	})
}

func TestSynsetValidation(t *testing.T) {
	server := newTestServer(t)

	t.Run("bad wnid", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/", map[string]interface{}{
			"wnid":  "bogus",
			"words": []string{"a"},
			"gloss": "g",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/", map[string]interface{}{
			"wnid": "n01440764",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		doc := decodeBody(t, resp)
		errBody, ok := doc["@error"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "VALIDATION", errBody["@code"])
		assert.Contains(t, errBody["@message"], "required")
	})

	t.Run("wrong content type", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/api/synsets/", "text/plain",
			strings.NewReader(`{"wnid":"n01440764","words":["a"],"gloss":"g"}`))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	})

	t.Run("missing parent", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/", map[string]interface{}{
			"wnid":        "n01443537",
			"words":       []string{"goldfish"},
			"gloss":       "g",
			"parent_wnid": "n09999999",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("not found carries mason error body", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/synsets/n09999999/")
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, common.MasonMediaType, resp.Header.Get("Content-Type"))

		doc := decodeBody(t, resp)
		errBody, ok := doc["@error"].(map[string]interface{})
		require.True(t, ok)
		assert.NotEmpty(t, errBody["@message"])
		assert.Equal(t, "NOT_FOUND", errBody["@code"])
		assert.Equal(t, "/api/synsets/n09999999/", doc["resource_url"])
	})

	t.Run("limit above maximum", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/synsets/?limit=101")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHyponymLifecycle(t *testing.T) {
	server := newTestServer(t)

	createSynset(t, server, "n01429172", []string{"fish"}, "aquatic vertebrate", "")
	createSynset(t, server, "n01440764", []string{"tench"}, "game fish", "")
	createSynset(t, server, "n01443537", []string{"goldfish"}, "small golden fish", "")

	t.Run("link", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/n01429172/hyponyms/",
			map[string]interface{}{"wnid": "n01440764"})
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "/api/synsets/n01429172/hyponyms/n01440764/", resp.Header.Get("Location"))
	})

	t.Run("linked child shows its parent", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/synsets/n01440764/")
		require.NoError(t, err)
		doc := decodeBody(t, resp)
		assert.Equal(t, "n01429172", doc["parent_wnid"])
		assert.Equal(t, "/api/synsets/n01429172/", controlHref(t, doc, "up"))
	})

	t.Run("relinking the same child conflicts", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/n01429172/hyponyms/",
			map[string]interface{}{"wnid": "n01440764"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("child with another parent conflicts", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/n01443537/hyponyms/",
			map[string]interface{}{"wnid": "n01440764"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("linking an ancestor under its descendant conflicts", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/n01440764/hyponyms/",
			map[string]interface{}{"wnid": "n01429172"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		getResp, err := http.Get(server.URL + "/api/synsets/n01429172/")
		require.NoError(t, err)
		doc := decodeBody(t, getResp)
		_, hasParent := doc["parent_wnid"]
		assert.False(t, hasParent)
	})

	t.Run("linking an ancestor deeper in the chain conflicts", func(t *testing.T) {
		createSynset(t, server, "n01444783", []string{"rudd"}, "reddish european fish", "n01440764")

		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/n01444783/hyponyms/",
			map[string]interface{}{"wnid": "n01429172"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("list", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/synsets/n01429172/hyponyms/")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		doc := decodeBody(t, resp)
		items, ok := doc["items"].([]interface{})
		require.True(t, ok)
		require.Len(t, items, 1)
		item := items[0].(map[string]interface{})
		assert.Equal(t, "n01440764", item["wnid"])
	})

	t.Run("get inside parent namespace", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/synsets/n01429172/hyponyms/n01440764/")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		doc := decodeBody(t, resp)
		assert.Equal(t, "n01440764", doc["wnid"])
		assert.Equal(t, "/api/synsets/n01440764/", controlHref(t, doc, "imagenet_browser:synsetitem"))
	})

	t.Run("unrelated child is not found", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/synsets/n01429172/hyponyms/n01443537/")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("parent with children cannot be deleted", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/synsets/n01429172/", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("detach", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete,
			server.URL+"/api/synsets/n01429172/hyponyms/n01440764/", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		getResp, err := http.Get(server.URL + "/api/synsets/n01440764/")
		require.NoError(t, err)
		doc := decodeBody(t, getResp)
		_, hasParent := doc["parent_wnid"]
		assert.False(t, hasParent)
	})
}

func TestImageLifecycle(t *testing.T) {
	server := newTestServer(t)
	createSynset(t, server, "n01440764", []string{"tench"}, "game fish", "")

	var imageURL string

	t.Run("create", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/n01440764/images/",
			map[string]interface{}{"url": "http://example.com/tench.jpg", "seen_at": "2011-01-05"})
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		location := resp.Header.Get("Location")
		require.True(t, strings.HasPrefix(location, "/api/synsets/n01440764/images/"))
		imageURL = server.URL + location
	})

	t.Run("duplicate url conflicts", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/n01440764/images/",
			map[string]interface{}{"url": "http://example.com/tench.jpg"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("bad scheme rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/n01440764/images/",
			map[string]interface{}{"url": "ftp://example.com/tench.jpg"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("get", func(t *testing.T) {
		resp, err := http.Get(imageURL)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		doc := decodeBody(t, resp)
		assert.Equal(t, "http://example.com/tench.jpg", doc["url"])
		assert.Equal(t, "2011-01-05", doc["seen_at"])
	})

	t.Run("update", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, imageURL,
			map[string]interface{}{"url": "https://example.com/tench-2.jpg", "seen_at": "2026-08-30"})
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		getResp, err := http.Get(imageURL)
		require.NoError(t, err)
		doc := decodeBody(t, getResp)
		assert.Equal(t, "https://example.com/tench-2.jpg", doc["url"])
	})

	t.Run("list across taxonomy", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/images/")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		doc := decodeBody(t, resp)
		items, ok := doc["items"].([]interface{})
		require.True(t, ok)
		require.Len(t, items, 1)
		item := items[0].(map[string]interface{})
		assert.Equal(t, "n01440764", item["synset_wnid"])
	})

	t.Run("delete", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodDelete, imageURL, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		getResp, err := http.Get(imageURL)
		require.NoError(t, err)
		getResp.Body.Close()
		assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	})

	t.Run("image for missing synset", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/synsets/n09999999/images/",
			map[string]interface{}{"url": "http://example.com/x.jpg"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSynsetCollectionBrowsing(t *testing.T) {
	server := newTestServer(t)

	createSynset(t, server, "n00000001", []string{"animal"}, "a living organism", "")
	createSynset(t, server, "n00000002", []string{"domestic cat"}, "a small domesticated felid", "n00000001")
	createSynset(t, server, "n00000003", []string{"wildcat"}, "an undomesticated felid", "n00000001")
	createSynset(t, server, "n00000004", []string{"dog"}, "a domesticated canid", "n00000001")
	createSynset(t, server, "n00000005", []string{"catamaran"}, "a twin-hulled boat", "")

	t.Run("paging follows next controls", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/synsets/?limit=2")
		require.NoError(t, err)
		doc := decodeBody(t, resp)

		items := doc["items"].([]interface{})
		require.Len(t, items, 2)
		assert.Equal(t, "n00000001", items[0].(map[string]interface{})["wnid"])

		next := controlHref(t, doc, "next")
		resp, err = http.Get(server.URL + next)
		require.NoError(t, err)
		doc = decodeBody(t, resp)

		items = doc["items"].([]interface{})
		require.Len(t, items, 2)
		assert.Equal(t, "n00000003", items[0].(map[string]interface{})["wnid"])
		assert.NotEmpty(t, controlHref(t, doc, "prev"))
	})

	t.Run("keyword search orders by matched label", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/synsets/?q=cat")
		require.NoError(t, err)
		doc := decodeBody(t, resp)

		items := doc["items"].([]interface{})
		require.Len(t, items, 3)
		assert.Equal(t, "n00000005", items[0].(map[string]interface{})["wnid"]) // catamaran
		assert.Equal(t, "n00000002", items[1].(map[string]interface{})["wnid"]) // domestic cat
		assert.Equal(t, "n00000003", items[2].(map[string]interface{})["wnid"]) // wildcat
	})

	t.Run("scope restricts to descendants", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/synsets/?scope=n00000001")
		require.NoError(t, err)
		doc := decodeBody(t, resp)

		items := doc["items"].([]interface{})
		require.Len(t, items, 3)
		for _, raw := range items {
			wnid := raw.(map[string]interface{})["wnid"].(string)
			assert.NotEqual(t, "n00000005", wnid)
			assert.NotEqual(t, "n00000001", wnid)
		}
	})

	t.Run("scope on missing synset is not found", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/synsets/?scope=n09999999")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
