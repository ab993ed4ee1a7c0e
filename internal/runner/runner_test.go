package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/wakagist/internal/config"
	"github.com/verte-zerg/wakagist/internal/model"
	"github.com/verte-zerg/wakagist/internal/report"
)

type fakeStats struct {
	summary model.StatsSummary
	err     error
	calls   int
}

func (f *fakeStats) FetchLanguages(_ context.Context, _ string) (model.StatsSummary, error) {
	f.calls++
	return f.summary, f.err
}

type fakePublisher struct {
	content string
	err     error
	calls   int
}

func (f *fakePublisher) Publish(_ context.Context, content string) (model.PublishResult, error) {
	f.calls++
	f.content = content
	if f.err != nil {
		return model.PublishResult{}, f.err
	}
	return model.PublishResult{StatusCode: http.StatusOK, Filename: "stats.txt", Content: content}, nil
}

type fakeFactory struct {
	stats     *fakeStats
	publisher *fakePublisher
	built     int
}

func (f *fakeFactory) Stats(config.Config) StatsProvider {
	f.built++
	return f.stats
}

func (f *fakeFactory) Publisher(config.Config) Publisher {
	f.built++
	return f.publisher
}

func env(values map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func fullEnv() map[string]string {
	return map[string]string{
		config.EnvWakaTimeKey: "waka",
		config.EnvGitHubToken: "token",
		config.EnvGistID:      "gist",
	}
}

var sampleRecords = []model.StatsRecord{
	{Name: "Python", DurationText: "2 hrs 36 mins", Percent: 41.9},
	{Name: "Go", DurationText: "1 hr 10 mins", Percent: 18.8},
}

func newRunner(values map[string]string, factory Factory) (*Runner, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Runner{
		Lookup:   env(values),
		Factory:  factory,
		Logger:   zap.New(core),
		NewRunID: func() string { return "run-1" },
	}, logs
}

func TestRunPublishesReport(t *testing.T) {
	factory := &fakeFactory{
		stats:     &fakeStats{summary: model.StatsSummary{Range: "last week", Languages: sampleRecords}},
		publisher: &fakePublisher{},
	}
	r, logs := newRunner(fullEnv(), factory)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomePublished, res.Outcome)
	require.Equal(t, 1, factory.publisher.calls)
	require.Equal(t, report.BuildReport(sampleRecords), factory.publisher.content)
	require.Equal(t, "stats.txt", res.Publish.Filename)
	require.Equal(t, 1, logs.FilterMessage("gist updated").Len())

	entries := logs.AllUntimed()
	require.Equal(t, "run start", entries[0].Message)
	require.Equal(t, "run end", entries[len(entries)-1].Message)
	require.Equal(t, "run-1", entries[0].ContextMap()["run-id"])
}

func TestRunMissingConfigMakesNoCalls(t *testing.T) {
	for _, key := range []string{config.EnvWakaTimeKey, config.EnvGitHubToken, config.EnvGistID} {
		t.Run(key, func(t *testing.T) {
			values := fullEnv()
			values[key] = ""
			factory := &fakeFactory{stats: &fakeStats{}, publisher: &fakePublisher{}}
			r, logs := newRunner(values, factory)

			_, err := r.Run(context.Background())
			require.ErrorIs(t, err, config.ErrMissing)
			require.Zero(t, factory.built)
			require.Zero(t, factory.stats.calls)
			require.Zero(t, factory.publisher.calls)
			require.Equal(t, 1, logs.FilterMessage("run end").Len())
		})
	}
}

func TestRunNoDataSkipsPublish(t *testing.T) {
	factory := &fakeFactory{stats: &fakeStats{}, publisher: &fakePublisher{}}
	r, logs := newRunner(fullEnv(), factory)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeNoData, res.Outcome)
	require.Zero(t, factory.publisher.calls)
	warnings := logs.FilterLevelExact(zapcore.WarnLevel)
	require.Equal(t, 1, warnings.Len())
	require.Contains(t, warnings.All()[0].Message, "no language stats")
}

func TestRunDryRunSkipsPublish(t *testing.T) {
	values := fullEnv()
	values[config.EnvDryRun] = "1"
	factory := &fakeFactory{
		stats:     &fakeStats{summary: model.StatsSummary{Languages: sampleRecords}},
		publisher: &fakePublisher{},
	}
	r, _ := newRunner(values, factory)
	var out bytes.Buffer
	r.Out = &out

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeDryRun, res.Outcome)
	require.Zero(t, factory.publisher.calls)
	require.Equal(t, report.BuildReport(sampleRecords)+"\n", out.String())
}

func TestRunFetchErrorPropagates(t *testing.T) {
	boom := errors.New("connection refused")
	factory := &fakeFactory{stats: &fakeStats{err: boom}, publisher: &fakePublisher{}}
	r, _ := newRunner(fullEnv(), factory)

	_, err := r.Run(context.Background())
	require.ErrorIs(t, err, boom)
	require.Zero(t, factory.publisher.calls)
}

func TestRunPublishErrorPropagates(t *testing.T) {
	boom := errors.New("bad gateway")
	factory := &fakeFactory{
		stats:     &fakeStats{summary: model.StatsSummary{Languages: sampleRecords}},
		publisher: &fakePublisher{err: boom},
	}
	r, _ := newRunner(fullEnv(), factory)

	_, err := r.Run(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, factory.publisher.calls)
}

func TestRenderNoData(t *testing.T) {
	_, text, err := Render(context.Background(), &fakeStats{}, "last_7_days")
	require.ErrorIs(t, err, ErrNoStatsData)
	require.Empty(t, text)
}

func TestRunOverHTTP(t *testing.T) {
	var statsHits, gistHits atomic.Int32
	statsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		statsHits.Add(1)
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"languages":[{"name":"Python","text":"2 hrs 36 mins","percent":41.9}]}}`))
	}))
	t.Cleanup(statsSrv.Close)

	var patched string
	gistSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gistHits.Add(1)
		var body struct {
			Files map[string]struct {
				Content string `json:"content"`
			} `json:"files"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		patched = body.Files["wakatime.txt"].Content
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(gistSrv.Close)

	statsURL, gistURL, filename := statsSrv.URL, gistSrv.URL, "wakatime.txt"
	r, _ := newRunner(fullEnv(), HTTPFactory{})
	r.File = config.FileConfig{
		WakaTime: config.WakaTimeConfig{BaseURL: &statsURL},
		Gist:     config.GistConfig{BaseURL: &gistURL, Filename: &filename},
	}

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomePublished, res.Outcome)
	require.EqualValues(t, 1, statsHits.Load())
	require.EqualValues(t, 1, gistHits.Load())
	require.True(t, strings.HasPrefix(patched, "Python      2 hrs 36 mins  "))
	require.True(t, strings.HasSuffix(patched, " 41.9%"))
	require.Equal(t, patched, res.Publish.Content)
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "published", OutcomePublished.String())
	require.Equal(t, "dry-run", OutcomeDryRun.String())
	require.Equal(t, "no-data", OutcomeNoData.String())
}
