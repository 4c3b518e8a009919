package http

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	client := NewClient(WithInterval(0))
	body, err := client.GetString(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(WithInterval(0))
	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	_, err = client.GetDocument(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestClient_GetDocument(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `<html><body><p id="x">hi</p></body></html>`)
	}))
	defer srv.Close()

	client := NewClient(WithInterval(0), WithUserAgent("test"))
	doc, err := client.GetDocument(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.NotNil(t, doc.FirstChild)
	assert.Equal(t, "test", gotUA)
}

func TestClient_GetDocumentPauses(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		fmt.Fprint(w, `<html></html>`)
	}))
	defer srv.Close()

	interval := 50 * time.Millisecond
	client := NewClient(WithInterval(interval))

	start := time.Now()
	_, err := client.GetDocument(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), interval-5*time.Millisecond)
}

func TestClient_PausesBeforeEveryRequest(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {}))
	defer srv.Close()

	interval := 50 * time.Millisecond
	client := NewClient(WithInterval(interval))

	start := time.Now()
	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 2*interval-5*time.Millisecond)
}

func TestClient_PauseCountsFromEndOfPreviousRequest(t *testing.T) {
	const delay = 100 * time.Millisecond
	var (
		mu     sync.Mutex
		starts []time.Time
	)
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		mu.Lock()
		starts = append(starts, time.Now())
		mu.Unlock()
		time.Sleep(delay)
	}))
	defer srv.Close()

	for _, interval := range []time.Duration{80 * time.Millisecond, 150 * time.Millisecond} {
		t.Run(interval.String(), func(t *testing.T) {
			mu.Lock()
			starts = nil
			mu.Unlock()

			client := NewClient(WithInterval(interval))
			for i := 0; i < 2; i++ {
				_, err := client.Get(context.Background(), srv.URL)
				require.NoError(t, err)
			}

			mu.Lock()
			defer mu.Unlock()
			require.Len(t, starts, 2)
			assert.GreaterOrEqual(t, starts[1].Sub(starts[0]), delay+interval-5*time.Millisecond)
		})
	}
}

func TestClient_PauseHonoursContext(t *testing.T) {
	client := NewClient(WithInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, client.Pause(ctx))
}
