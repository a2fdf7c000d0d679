package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Symbol string `json:"symbol"`
	Last   string `json:"last"`
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`[{"symbol":"NESN","last":"101.5","extra":true},{"symbol":null}]`))
	}))
	defer srv.Close()

	got, err := Fetch[[]item](context.Background(), NewClient(srv.Client()), srv.URL)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, item{Symbol: "NESN", Last: "101.5"}, got[0])
	assert.Equal(t, item{}, got[1])
}

func TestFetch_WrongStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Fetch[[]item](context.Background(), NewClient(srv.Client()), srv.URL)
	var terr *Error
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, KindWrongStatusCode, terr.Kind)
	assert.Equal(t, 500, terr.StatusCode)
	assert.Contains(t, terr.Error(), "500")
}

func TestFetch_NoValidData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := Fetch[[]item](context.Background(), NewClient(srv.Client()), srv.URL)
	assert.Equal(t, KindNoValidData, KindOf(err))
}

func TestFetch_WrongResponse(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			Body:    io.NopCloser(strings.NewReader("[]")),
			Header:  make(http.Header),
			Request: r,
		}, nil
	})}

	_, err := Fetch[[]item](context.Background(), NewClient(hc), "https://example.invalid/quotes")
	assert.Equal(t, KindWrongResponse, KindOf(err))
}

func TestFetch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := Fetch[[]item](context.Background(), NewClient(nil), addr)
	var terr *Error
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, KindTransport, terr.Kind)
	assert.False(t, terr.Canceled())
}

func TestFetch_Canceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Fetch[[]item](ctx, NewClient(srv.Client()), srv.URL)
	var terr *Error
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, KindTransport, terr.Kind)
	assert.True(t, terr.Canceled())
}

func TestFetch_MalformedURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "ftp://example.com/x", "http://"} {
		_, err := Fetch[[]item](context.Background(), NewClient(nil), raw)
		assert.Equal(t, KindTransport, KindOf(err), raw)
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "wrong_response", KindWrongResponse.String())
	assert.Equal(t, "transport_error", KindTransport.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}
