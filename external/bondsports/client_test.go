package bondsports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jaws696969/hockey-ics/internal/usecase"
)

const sampleBody = `[
  {
    "gameId": 1040,
    "eventId": 4416839,
    "homeTeam": {"id": 1254, "name": "Alligator Skinners", "score": 6},
    "awayTeam": {"id": 1258, "name": "Ice Dogs", "score": 3},
    "status": "final",
    "startDateTime": "2026-01-20T01:30:00.000Z",
    "endDateTime": "2026-01-20T02:50:00.000Z",
    "space": {"name": "West Rink"},
    "stageName": "Regular Season"
  }
]`

func TestFetchGames_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("accept"); got != "application/json" {
			t.Errorf("missing accept header, got=%q", got)
		}
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{Timeout: 2 * time.Second})
	games, err := client.FetchGames(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(games) != 1 || games[0].SourceID != "1040" {
		t.Fatalf("unexpected games: %+v", games)
	}
}

func TestFetchGames_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{Timeout: 2 * time.Second, MaxRetries: 1})
	games, err := client.FetchGames(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected retry to recover, got=%v", err)
	}
	if len(games) != 1 {
		t.Fatalf("unexpected games: %+v", games)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two attempts, got=%d", calls.Load())
	}
}

func TestFetchGames_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{Timeout: 2 * time.Second, MaxRetries: 3})
	_, err := client.FetchGames(context.Background(), srv.URL)
	if !errors.Is(err, usecase.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got=%v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("404 must not be retried, attempts=%d", calls.Load())
	}
}

func TestFetchGames_ExhaustedRetries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{Timeout: 2 * time.Second, MaxRetries: 0})
	_, err := client.FetchGames(context.Background(), srv.URL)
	if !errors.Is(err, usecase.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got=%v", err)
	}
}

func TestFetchGameScores_SharedURLFetchedOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{Timeout: 5 * time.Second})

	const teams = 4
	var started, done sync.WaitGroup
	started.Add(teams)
	done.Add(teams)
	for i := 0; i < teams; i++ {
		go func() {
			defer done.Done()
			started.Done()
			if _, err := client.FetchGameScores(context.Background(), srv.URL); err != nil {
				t.Errorf("fetch failed: %v", err)
			}
		}()
	}

	started.Wait()
	// Give every goroutine a moment to reach the singleflight gate before
	// the one real request is allowed to complete.
	time.Sleep(50 * time.Millisecond)
	close(release)
	done.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one upstream request for a shared URL, got=%d", calls.Load())
	}
}
