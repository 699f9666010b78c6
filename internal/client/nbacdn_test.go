package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"nba_clutch/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scheduleJSON = `{
  "leagueSchedule": {
    "seasonYear": "2025-26",
    "leagueId": "00",
    "gameDates": [
      {"gameDate": "10/21/2025 00:00:00", "games": [
        {"gameId": "0022500001", "gameStatus": 3},
        {"gameId": "0022500002", "gameStatus": 3}
      ]},
      {"gameDate": "10/22/2025 00:00:00", "games": [
        {"gameId": "0022500003", "gameStatus": 1}
      ]}
    ]
  }
}`

const playByPlayJSON = `{
  "game": {
    "gameId": "0022500001",
    "actions": [
      {"actionNumber": 1, "period": 4, "clock": "04:59", "homeScore": 100, "awayScore": 98,
       "personId": 201939, "teamId": 1610612744, "actionType": "2pt", "shotResult": "Made", "scoreValue": 2},
      {"actionNumber": 2, "period": 4, "clock": "04:40", "homeScore": 100, "awayScore": 98,
       "teamId": 1610612744, "actionType": "timeout"}
    ]
  }
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Options{
		BaseURL:   srv.URL,
		Timeout:   5 * time.Second,
		UserAgent: "clutch-test/1.0",
		Referer:   "https://www.nba.com/",
	})
	return c, srv
}

func TestFetchSchedule(t *testing.T) {
	var gotPath, gotUA, gotReferer string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		w.Write([]byte(scheduleJSON))
	})

	schedule, err := c.FetchSchedule(context.Background(), "2025-26")
	require.NoError(t, err)

	assert.Equal(t, "/staticData/scheduleLeagueV2_2025.json", gotPath)
	assert.Equal(t, "clutch-test/1.0", gotUA)
	assert.Equal(t, "https://www.nba.com/", gotReferer)
	assert.Equal(t, []models.GameID{"0022500001", "0022500002", "0022500003"}, schedule.GameIDs())
	assert.Equal(t, []models.GameID{"0022500001", "0022500002"}, schedule.FinalGameIDs())
}

func TestFetchSchedule_NonSuccessStatus(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "AccessDenied", http.StatusForbidden)
	})

	_, err := c.FetchSchedule(context.Background(), "2025-26")
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestFetchSchedule_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second})
	_, err := c.FetchSchedule(context.Background(), "2025-26")

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
}

func TestFetchSchedule_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"leagueSchedule": `},
		{"missing leagueSchedule", `{"meta": {}}`},
		{"missing gameDates", `{"leagueSchedule": {"seasonYear": "2025-26"}}`},
		{"date without games", `{"leagueSchedule": {"gameDates": [{"gameDate": "x"}]}}`},
		{"game without id", `{"leagueSchedule": {"gameDates": [{"games": [{"gameStatus": 1}]}]}}`},
		{"not an object", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := c.FetchSchedule(context.Background(), "2025-26")
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
		})
	}
}

func TestFetchSchedule_EmptySeason(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"leagueSchedule": {"gameDates": []}}`))
	})

	schedule, err := c.FetchSchedule(context.Background(), "2025-26")
	require.NoError(t, err)
	assert.Empty(t, schedule.GameIDs())
}

func TestFetchPlayByPlay(t *testing.T) {
	var gotPath string
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(playByPlayJSON))
	})

	actions, err := c.FetchPlayByPlay(context.Background(), "0022500001")
	require.NoError(t, err)

	assert.Equal(t, "/liveData/playbyplay/playbyplay_0022500001.json", gotPath)
	require.Len(t, actions, 2)

	shot := actions[0]
	assert.Equal(t, 4, shot.Period)
	assert.Equal(t, "04:59", shot.Clock)
	require.NotNil(t, shot.HomeScore)
	assert.Equal(t, 100, *shot.HomeScore)
	assert.Equal(t, 201939, shot.PersonID)
	assert.Equal(t, "Made", shot.ShotResult)
	assert.Equal(t, 2, shot.ScoreValue)

	timeout := actions[1]
	assert.False(t, timeout.HasPlayer())
	assert.Zero(t, timeout.ScoreValue)
}

func TestFetchPlayByPlay_MistypedScoreKeepsGame(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"game": {"gameId": "0022500001", "actions": [
			{"period": 4, "clock": "01:00", "homeScore": "100", "awayScore": 98, "personId": 201939},
			{"period": 4, "clock": "00:30", "homeScore": 101, "awayScore": 98, "personId": 201939}
		]}}`))
	})

	actions, err := c.FetchPlayByPlay(context.Background(), "0022500001")
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Nil(t, actions[0].HomeScore)
	require.NotNil(t, actions[1].HomeScore)
	assert.Equal(t, 101, *actions[1].HomeScore)
}

func TestFetchPlayByPlay_Errors(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/liveData/playbyplay/playbyplay_missing.json":
			http.NotFound(w, r)
		case "/liveData/playbyplay/playbyplay_garbled.json":
			w.Write([]byte(`<Error>`))
		default:
			w.Write([]byte(`{}`))
		}
	})
	ctx := context.Background()

	_, err := c.FetchPlayByPlay(ctx, "missing")
	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))

	_, err = c.FetchPlayByPlay(ctx, "garbled")
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))

	_, err = c.FetchPlayByPlay(ctx, "nogame")
	assert.True(t, errors.As(err, &parseErr))

	_, err = c.FetchPlayByPlay(ctx, "")
	assert.Error(t, err)
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.entries[key]
	return body, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, body []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = body
	return nil
}

func TestFetchPlayByPlay_UsesCache(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(playByPlayJSON))
	}))
	defer srv.Close()

	cache := &memoryCache{entries: map[string][]byte{}}
	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second, Cache: cache, CacheTTL: time.Hour})
	ctx := context.Background()

	first, err := c.FetchPlayByPlay(ctx, "0022500001")
	require.NoError(t, err)
	second, err := c.FetchPlayByPlay(ctx, "0022500001")
	require.NoError(t, err)

	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, first, second)
	assert.Contains(t, cache.entries, PlayByPlayPath("0022500001"))
}

func TestFetchPlayByPlay_FailuresNotCached(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	cache := &memoryCache{entries: map[string][]byte{}}
	c.cache = cache

	_, err := c.FetchPlayByPlay(context.Background(), "0022500001")
	require.Error(t, err)
	assert.Empty(t, cache.entries)
}

func TestFetchPlayByPlay_ContextCancelled(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(playByPlayJSON))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchPlayByPlay(ctx, "0022500001")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSchedulePath(t *testing.T) {
	assert.Equal(t, "staticData/scheduleLeagueV2_2025.json", SchedulePath("2025-26"))
	assert.Equal(t, "liveData/playbyplay/playbyplay_0022500001.json", PlayByPlayPath("0022500001"))
}
