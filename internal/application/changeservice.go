package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/wikireview/internal/domain/model"
	"github.com/ericfisherdev/wikireview/internal/domain/port/driven"
)

// detailConcurrency bounds parallel per-group diff reconstruction. Groups are
// independent and read-only against the repository, so only the bound matters.
const detailConcurrency = 4

// ChangeService drives one aggregation pass: log fetch, parse, filter, group,
// and diff reconstruction. A pass runs to completion before results are used;
// no partial results are published.
type ChangeService struct {
	gateway driven.GitGateway
	builder *DiffBuilder
	isDoc   DocumentMatcher
	rules   []string
	logger  *slog.Logger
}

// NewChangeService creates a ChangeService. rules are the ordered path filter
// rules; extensions select which touched files count as documents.
func NewChangeService(gateway driven.GitGateway, rules, extensions []string, logger *slog.Logger) *ChangeService {
	return &ChangeService{
		gateway: gateway,
		builder: NewDiffBuilder(gateway),
		isDoc:   ExtensionMatcher(extensions),
		rules:   rules,
		logger:  logger,
	}
}

// Groups aggregates the review window starting at since into change groups
// without reconstructing diffs. Used when only group identity is needed, e.g.
// resolving a summary cache miss.
func (s *ChangeService) Groups(ctx context.Context, since time.Time) ([]model.ChangeGroup, error) {
	prefix, err := s.gateway.RepoPrefix(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve repo prefix: %w", err)
	}

	raw, err := s.gateway.Log(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("fetch log since %s: %w", since.Format(time.RFC3339), err)
	}

	commits, err := ParseLog(raw)
	if err != nil {
		return nil, err
	}

	entries := BuildChangeEntries(commits, s.isDoc, s.rules, prefix)
	groups := GroupChanges(entries)

	s.logger.Debug("aggregation pass",
		"since", since,
		"commits", len(commits),
		"entries", len(entries),
		"groups", len(groups),
	)

	return groups, nil
}

// Changes runs a full pass and returns one ChangeDetail per group, in the
// engine's newest-first group order. Diff reconstruction is parallelized
// across groups; results are placed by index so ordering is deterministic.
func (s *ChangeService) Changes(ctx context.Context, since time.Time) ([]model.ChangeDetail, error) {
	groups, err := s.Groups(ctx, since)
	if err != nil {
		return nil, err
	}
	return s.Details(ctx, groups)
}

// Details reconstructs diffs for the given groups.
func (s *ChangeService) Details(ctx context.Context, groups []model.ChangeGroup) ([]model.ChangeDetail, error) {
	details := make([]model.ChangeDetail, len(groups))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(detailConcurrency)
	for i, group := range groups {
		eg.Go(func() error {
			detail, err := s.builder.BuildDetail(egCtx, group)
			if err != nil {
				return err
			}
			details[i] = detail
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return details, nil
}

// Sync pulls the remote into the working copy. Callers must complete a sync
// before starting a read pass; the two are never interleaved.
func (s *ChangeService) Sync(ctx context.Context) (string, error) {
	out, err := s.gateway.Sync(ctx)
	if err != nil {
		return "", fmt.Errorf("sync working copy: %w", err)
	}
	return out, nil
}
