package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRESTStoreValidatesBaseURL(t *testing.T) {
	_, err := NewRESTStore("   ")
	require.Error(t, err)
}

func TestRESTStoreSaveAlertPostsRecord(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"name":"-generated"}`))
	}))
	defer srv.Close()

	store, err := NewRESTStore(srv.URL + "/")
	require.NoError(t, err)
	store.WithHTTPClient(srv.Client())

	require.NoError(t, store.SaveAlert(context.Background(), sampleAlert()))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/emergency-alerts.json", gotPath)
	assert.Equal(t, "sos-1234", gotBody["id"])
	assert.Equal(t, "Need an ambulance", gotBody["message"])
}

func TestRESTStoreSaveAlertRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store, err := NewRESTStore(srv.URL)
	require.NoError(t, err)
	store.WithHTTPClient(srv.Client())

	err = store.SaveAlert(context.Background(), sampleAlert())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 401")
}
