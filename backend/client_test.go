package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newnow-platform/newnow-web/backend"
	"github.com/stretchr/testify/require"
)

func TestLoginDecodesAuthResponse(t *testing.T) {
	var gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, backend.PathLogin, r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotRequestID = r.Header.Get("X-Request-ID")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"T1","refreshToken":"R1","email":"a@x.com","name":"Ann","roles":["ROLE_ADMIN"]}`))
	}))
	defer srv.Close()

	client, err := backend.New(srv.URL, srv.Client())
	require.NoError(t, err)

	resp, err := client.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "T1", resp.Token)
	require.Equal(t, "R1", resp.RefreshToken)
	require.Equal(t, "Ann", resp.Name)
	require.Equal(t, []string{"ROLE_ADMIN"}, resp.Roles)
	require.NotEmpty(t, gotRequestID, "every call carries a correlation ID")
}

func TestErrorResponseCarriesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer srv.Close()

	client, err := backend.New(srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "a@x.com", "wrong")
	require.Error(t, err)
	require.True(t, backend.IsStatus(err, http.StatusUnauthorized))
	require.Contains(t, err.Error(), "Bad credentials")
}

func TestPopularLocationsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/feed/popular-locations", r.URL.Path)
		require.Equal(t, "6", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"id":1,"name":"Arena","address":"Main St","totalRating":4.5,"type":"CLUB","description":""}]`))
	}))
	defer srv.Close()

	client, err := backend.New(srv.URL, srv.Client())
	require.NoError(t, err)

	locations, err := client.PopularLocations(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	require.Equal(t, "Arena", locations[0].Name)
}

func TestRequiresBaseURL(t *testing.T) {
	_, err := backend.New("", nil)
	require.Error(t, err)
}
