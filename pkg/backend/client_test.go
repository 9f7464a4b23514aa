package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"places/internal/models"
)

func TestClient_FetchPlaces(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		assert.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(PlacesResponse{
			Result: true,
			Places: []models.Place{{Name: "Paris", Latitude: 48.85, Longitude: 2.35}},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", nil)
	got, err := c.FetchPlaces(context.Background(), "jean luc")
	require.NoError(t, err)

	assert.Equal(t, "/places/jean%20luc", gotPath)
	assert.True(t, got.Result)
	assert.Equal(t, []models.Place{{Name: "Paris", Latitude: 48.85, Longitude: 2.35}}, got.Places)
}

func TestClient_Mutations(t *testing.T) {
	tests := []struct {
		name       string
		call       func(c *Client) (*Response, error)
		wantMethod string
		wantBody   map[string]any
		reply      string
		wantResult bool
	}{
		{
			name: "create place sends the four fields",
			call: func(c *Client) (*Response, error) {
				return c.CreatePlace(context.Background(), CreatePlaceRequest{
					Nickname: "alice", Name: "Lyon", Latitude: 45.76, Longitude: 4.84,
				})
			},
			wantMethod: http.MethodPost,
			wantBody:   map[string]any{"nickname": "alice", "name": "Lyon", "latitude": 45.76, "longitude": 4.84},
			reply:      `{"result":true}`,
			wantResult: true,
		},
		{
			name: "delete place sends nickname and name",
			call: func(c *Client) (*Response, error) {
				return c.DeletePlace(context.Background(), DeletePlaceRequest{Nickname: "alice", Name: "Lyon"})
			},
			wantMethod: http.MethodDelete,
			wantBody:   map[string]any{"nickname": "alice", "name": "Lyon"},
			reply:      `{"result":false,"error":"Place not found"}`,
			wantResult: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantMethod, r.Method)
				assert.Equal(t, "/places", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, tt.wantBody, body)

				_, _ = w.Write([]byte(tt.reply))
			}))
			defer server.Close()

			got, err := tt.call(NewClient(server.URL, server.Client()))
			require.NoError(t, err)
			assert.Equal(t, tt.wantResult, got.Result)
		})
	}
}

func TestClient_Errors(t *testing.T) {
	t.Run("undecodable body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		}))
		defer server.Close()

		_, err := NewClient(server.URL, nil).FetchPlaces(context.Background(), "alice")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("unreachable server", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		addr := server.URL
		server.Close()

		_, err := NewClient(addr, nil).DeletePlace(context.Background(), DeletePlaceRequest{Nickname: "a", Name: "b"})
		assert.Error(t, err)
	})
}
