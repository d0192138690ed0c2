package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"fieldlex-client/internal/config"
	"fieldlex-client/internal/model"
	"fieldlex-client/internal/remote"
	"fieldlex-client/internal/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Remote.BaseURL = srv.URL
	cfg.Remote.Timeout = 2 * time.Second
	cfg.Remote.RetryAttempts = 1
	cfg.Remote.RetryDelay = time.Millisecond
	cfg.Remote.DistrictsEndpoint = "/api/v1/districts"
	cfg.Remote.TehsilsEndpoint = "/api/v1/tehsils"
	cfg.Remote.VillagesEndpoint = "/api/v1/villages"
	cfg.Remote.LanguagesEndpoint = "/api/v1/languages"
	cfg.Remote.WordsEndpoint = "/api/v1/words"
	cfg.Remote.SubmissionsEndpoint = "/api/v1/submissions"

	tokens := token.NewStore(filepath.Join(t.TempDir(), "token.json"))
	return NewService(cfg, remote.NewExecutor(cfg, tokens))
}

func TestWordsPassesLanguageFilter(t *testing.T) {
	var gotLanguage string
	svc := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLanguage = r.URL.Query().Get("languageId")
		json.NewEncoder(w).Encode([]model.Word{{ID: "w-1", LanguageID: gotLanguage, Text: "water"}})
	}))

	words, err := svc.Words(context.Background(), "lg-9")
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, "lg-9", gotLanguage)
	assert.Equal(t, "water", words[0].Text)
}

func TestLoadReferenceFansOut(t *testing.T) {
	svc := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/districts":
			json.NewEncoder(w).Encode([]model.District{{ID: "d-1", Name: "North"}})
		case "/api/v1/languages":
			json.NewEncoder(w).Encode([]model.Language{{ID: "lg-1", Name: "Saraiki"}, {ID: "lg-2", Name: "Balti"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	ref, err := svc.LoadReference(context.Background())
	require.NoError(t, err)
	assert.Len(t, ref.Districts, 1)
	assert.Len(t, ref.Languages, 2)
}

func TestSubmissionsBuildsFilterQuery(t *testing.T) {
	var got map[string]string
	svc := newTestCatalog(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"userIds":  q.Get("userIds"),
			"statuses": q.Get("statuses"),
			"page":     q.Get("page"),
			"limit":    q.Get("limit"),
			"sort":     q.Get("sort"),
		}
		json.NewEncoder(w).Encode(model.SubmissionPage{Page: 2, Limit: 10})
	}))

	page, err := svc.Submissions(context.Background(), model.SubmissionFilter{
		UserIDs:  []string{"u-1", "u-2"},
		Statuses: []string{"approved"},
		Page:     2,
		Limit:    10,
		Sort:     "-createdAt",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, "u-1,u-2", got["userIds"])
	assert.Equal(t, "approved", got["statuses"])
	assert.Equal(t, "2", got["page"])
	assert.Equal(t, "10", got["limit"])
	assert.Equal(t, "-createdAt", got["sort"])
}
