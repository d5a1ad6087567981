package verification

import (
	"context"
	"log/slog"
	"strings"

	"github.com/brightpath-hr/employment-verification-api/pkg/core"
	"github.com/brightpath-hr/employment-verification-api/pkg/ultipro"
	"golang.org/x/sync/errgroup"
)

// employmentLookupLimit bounds the per-candidate fan-out; broad searches can
// return many identities for one email.
const employmentLookupLimit = 4

// Service answers one email lookup end to end. Everything is request-scoped:
// a fresh token per call, no state carried across calls.
type Service interface {
	Verify(ctx context.Context, email string) (Result, error)
}

// Result carries the reconciled outcome plus the raw upstream payloads for
// verbose projections.
type Result struct {
	Outcome     Outcome
	Candidates  []Candidate
	RawIdentity string
}

type Options struct {
	Logger *slog.Logger
}

type pipeline struct {
	backend  ultipro.Service
	strategy string
	logger   *slog.Logger
}

func New(backend ultipro.Service, cfg *core.BackendConfig, opts Options) Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "verification"))

	strategy := "exact"
	if cfg != nil && strings.EqualFold(cfg.LookupStrategy, "search") {
		strategy = "search"
	}

	return &pipeline{
		backend:  backend,
		strategy: strategy,
		logger:   logger,
	}
}

// Verify runs authenticate → resolve identities → employment per candidate →
// reconcile. Only authentication failure is returned as an error; a failed
// identity lookup degrades to "not found" and a failed employment lookup to
// "status unknown" for that candidate alone.
func (p *pipeline) Verify(ctx context.Context, email string) (Result, error) {
	log := p.logger.With(slog.String("email", email))

	token, err := p.backend.Authenticate(ctx)
	if err != nil {
		return Result{}, err
	}

	lookup, err := p.resolveIdentities(ctx, token, email)
	if err != nil {
		log.Warn("identity resolution failed, treating as no candidates",
			slog.Any("error", err),
		)
		lookup = ultipro.IdentityLookup{}
	}

	log.Info("identities resolved",
		slog.String("strategy", p.strategy),
		slog.Int("candidates", len(lookup.Records)),
	)

	candidates := p.resolveEmployment(ctx, token, lookup.Records)

	outcome := Reconcile(candidates)

	log.Info("lookup reconciled",
		slog.Int("outcome", int(outcome.Kind)),
		slog.Int("total", outcome.Report.TotalCandidates),
		slog.Int("active", outcome.Report.ActiveCandidates),
	)

	return Result{
		Outcome:     outcome,
		Candidates:  candidates,
		RawIdentity: lookup.Raw,
	}, nil
}

func (p *pipeline) resolveIdentities(ctx context.Context, token, email string) (ultipro.IdentityLookup, error) {
	if p.strategy == "search" {
		return p.backend.FindSsoUsers(ctx, token, email)
	}
	return p.backend.GetSsoUserByUserName(ctx, token, email)
}

// resolveEmployment annotates every candidate concurrently. Results are
// slotted by resolution-order index, so the reconciler's last-active
// tie-break is reproducible regardless of completion order. A failed lookup
// leaves that one candidate's detail nil and never aborts its siblings.
func (p *pipeline) resolveEmployment(ctx context.Context, token string, records []ultipro.IdentityRecord) []Candidate {
	candidates := make([]Candidate, len(records))

	var g errgroup.Group
	g.SetLimit(employmentLookupLimit)

	for i, record := range records {
		candidates[i] = Candidate{Index: i, Record: record}

		g.Go(func() error {
			lookup, err := p.backend.GetEmploymentInformation(ctx, token, record.CompanyCode, record.EmployeeNumber)
			if err != nil {
				p.logger.Warn("employment lookup failed, status unknown for candidate",
					slog.String("company_code", record.CompanyCode),
					slog.String("employee_number", record.EmployeeNumber),
					slog.Any("error", err),
				)
				return nil
			}

			candidates[i].Detail = lookup.Detail
			candidates[i].RawEmployment = lookup.Raw
			return nil
		})
	}

	_ = g.Wait()

	return candidates
}
