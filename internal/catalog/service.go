// Package catalog reads reference data from the remote service: locations,
// languages, words, and the remote submission listing. All calls are
// non-mutating and safe to fan out concurrently.
package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fieldlex-client/internal/config"
	"fieldlex-client/internal/logger"
	"fieldlex-client/internal/model"
	"fieldlex-client/internal/remote"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	cfg  *config.Config
	exec *remote.Executor
	log  zerolog.Logger
}

func NewService(cfg *config.Config, exec *remote.Executor) *Service {
	return &Service{
		cfg:  cfg,
		exec: exec,
		log:  logger.Component("catalog"),
	}
}

func (s *Service) Districts(ctx context.Context) ([]model.District, error) {
	var out []model.District
	if err := s.get(ctx, s.cfg.Remote.DistrictsEndpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Tehsils(ctx context.Context, districtID string) ([]model.Tehsil, error) {
	q := url.Values{"districtId": {districtID}}
	var out []model.Tehsil
	if err := s.get(ctx, s.cfg.Remote.TehsilsEndpoint, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Villages(ctx context.Context, tehsilID string) ([]model.Village, error) {
	q := url.Values{"tehsilId": {tehsilID}}
	var out []model.Village
	if err := s.get(ctx, s.cfg.Remote.VillagesEndpoint, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Languages(ctx context.Context) ([]model.Language, error) {
	var out []model.Language
	if err := s.get(ctx, s.cfg.Remote.LanguagesEndpoint, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Words(ctx context.Context, languageID string) ([]model.Word, error) {
	q := url.Values{"languageId": {languageID}}
	var out []model.Word
	if err := s.get(ctx, s.cfg.Remote.WordsEndpoint, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Submissions lists the caller's remote submissions, paginated and filtered.
func (s *Service) Submissions(ctx context.Context, filter model.SubmissionFilter) (*model.SubmissionPage, error) {
	q := url.Values{}
	if len(filter.UserIDs) > 0 {
		q.Set("userIds", strings.Join(filter.UserIDs, ","))
	}
	if len(filter.Statuses) > 0 {
		q.Set("statuses", strings.Join(filter.Statuses, ","))
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Sort != "" {
		q.Set("sort", filter.Sort)
	}

	var page model.SubmissionPage
	if err := s.get(ctx, s.cfg.Remote.SubmissionsEndpoint, q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// LoadReference fetches the catalogs a fresh form needs. Districts and
// languages are independent reads, so they run in parallel.
func (s *Service) LoadReference(ctx context.Context) (*model.Reference, error) {
	var ref model.Reference

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		districts, err := s.Districts(gctx)
		if err != nil {
			return err
		}
		ref.Districts = districts
		return nil
	})
	g.Go(func() error {
		languages, err := s.Languages(gctx)
		if err != nil {
			return err
		}
		ref.Languages = languages
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Debug().
		Int("districts", len(ref.Districts)).
		Int("languages", len(ref.Languages)).
		Msg("Reference catalogs loaded")

	return &ref, nil
}

func (s *Service) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	env, err := s.exec.Execute(ctx, &remote.Descriptor{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
	if err != nil {
		return err
	}
	return env.Decode(out)
}
