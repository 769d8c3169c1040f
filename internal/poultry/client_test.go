package poultry_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kombefarm/flockdash/internal/poultry"
	"github.com/kombefarm/flockdash/internal/poultry/poultrytest"
)

type bearer string

func (b bearer) AuthorizationHeader() string { return "Bearer " + string(b) }

func newClient(t *testing.T, url string) *poultry.Client {
	t.Helper()
	c, err := poultry.NewClient(url, poultry.WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c
}

func TestClient_CRUDRoundTrip(t *testing.T) {
	t.Parallel()

	backend := poultrytest.NewBackend("secret", poultry.FlockRecord{
		FlockID: 1, FlockType: "Broiler", NbrOfBirds: 100, Reduction: 5, Mortality: 2,
		StockDate: "2024-01-01", Purpose: "Meat",
	})
	server := backend.Start()
	t.Cleanup(server.Close)

	c := newClient(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	creds := bearer("secret")

	rows, err := c.ListFlocks(ctx, creds)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 93, rows[0].StockRemaining)

	created, err := c.CreateFlock(ctx, creds, poultry.FlockRecord{FlockName: "A", FlockType: "Layer", NbrOfBirds: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.FlockID)
	assert.Equal(t, 50, created.StockRemaining)

	created.Mortality = 10
	require.NoError(t, c.UpdateFlock(ctx, creds, created.FlockID, *created))

	require.NoError(t, c.DeleteFlock(ctx, creds, 1))

	rows, err = c.ListFlocks(ctx, creds)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].FlockID)
	assert.Equal(t, 40, rows[0].StockRemaining)

	assert.Equal(t, 2, backend.Calls("list"))
	assert.Equal(t, 1, backend.Calls("create"))
	assert.Equal(t, 1, backend.Calls("update"))
	assert.Equal(t, 1, backend.Calls("delete"))
}

func TestClient_ServerErrorCarriesStatusAndMessage(t *testing.T) {
	t.Parallel()

	backend := poultrytest.NewBackend("")
	server := backend.Start()
	t.Cleanup(server.Close)
	c := newClient(t, server.URL)

	err := c.DeleteFlock(context.Background(), nil, 1)
	var apiErr *poultry.APIError
	require.True(t, errors.As(err, &apiErr), "error = %v, want *APIError", err)
	assert.Equal(t, poultry.KindServer, apiErr.Kind)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "Not found", apiErr.Message)

	backend.FailNext("list", poultrytest.Failure{Status: http.StatusBadGateway, Raw: "upstream unavailable"})
	_, err = c.ListFlocks(context.Background(), nil)
	apiErr = poultry.AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, poultry.KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestClient_UnauthorizedWithoutToken(t *testing.T) {
	t.Parallel()

	server := poultrytest.NewBackend("secret").Start()
	t.Cleanup(server.Close)
	c := newClient(t, server.URL)

	_, err := c.ListFlocks(context.Background(), bearer("wrong"))
	apiErr := poultry.AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, poultry.KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClient_TransportError(t *testing.T) {
	c := newClient(t, "127.0.0.1:1")
	_, err := c.ListFlocks(context.Background(), nil)
	apiErr := poultry.AsAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, poultry.KindTransport, apiErr.Kind)
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

func TestClient_SendsHeaders(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID, gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(server.Close)

	c := newClient(t, server.URL)
	rows, err := c.ListFlocks(context.Background(), bearer("tok"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Len(t, gotRequestID, 36)
	assert.Contains(t, gotUserAgent, "flockdash/")
}

func TestClient_RejectsMissingID(t *testing.T) {
	c := newClient(t, "127.0.0.1:1")
	assert.Error(t, c.UpdateFlock(context.Background(), nil, 0, poultry.FlockRecord{}))
	assert.Error(t, c.DeleteFlock(context.Background(), nil, -1))
}

func TestClient_NonJSONSuccessIsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>login</html>"))
	}))
	t.Cleanup(server.Close)

	c := newClient(t, server.URL)
	rows, err := c.ListFlocks(context.Background(), bearer("tok"))
	require.Error(t, err)
	assert.Nil(t, rows)

	apiErr := poultry.AsAPIError(err)
	assert.Equal(t, poultry.KindTransport, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "decode response")

	_, err = c.CreateFlock(context.Background(), bearer("tok"), poultry.FlockRecord{FlockType: "Broiler"})
	require.Error(t, err)
	assert.Equal(t, poultry.KindTransport, poultry.AsAPIError(err).Kind)
}

func TestClient_UpdateIgnoresEmptyBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	c := newClient(t, server.URL)
	assert.NoError(t, c.UpdateFlock(context.Background(), bearer("tok"), 3, poultry.FlockRecord{}))
	assert.NoError(t, c.DeleteFlock(context.Background(), bearer("tok"), 3))
}
