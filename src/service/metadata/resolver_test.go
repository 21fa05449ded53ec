package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchParsesDescriptor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"name":"Ape #1","image":"ipfs://img"}`))
	}))
	defer srv.Close()

	r := NewResolver(nil, time.Second, 0)
	meta, err := r.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Ape #1", meta.Name)
	assert.Equal(t, "ipfs://img", meta.Image)
}

func TestFetchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewResolver(nil, time.Second, 0)
	_, err := r.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetchInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	r := NewResolver(nil, time.Second, 0)
	_, err := r.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetchUnreachableHost(t *testing.T) {
	r := NewResolver(nil, 100*time.Millisecond, 0)
	_, err := r.Fetch(context.Background(), "http://127.0.0.1:1/meta.json")
	assert.Error(t, err)
}
