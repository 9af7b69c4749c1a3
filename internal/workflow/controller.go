package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"footin-engine/internal/apperr"
	"footin-engine/internal/contacts"
	"footin-engine/internal/domain"
	"footin-engine/internal/events"
	"footin-engine/internal/normalize"
	"footin-engine/internal/outreach"
	"footin-engine/internal/provider"
	"footin-engine/internal/rank"
	"footin-engine/internal/store"
)

// Options carries the controller's policy knobs, snapshotted from config.
type Options struct {
	OwnerID string
	// Departments searched per company during extraction.
	Departments []string
	// AllowSynthetic substitutes locally generated data when a live
	// provider fails, instead of blocking the flow.
	AllowSynthetic bool
	// Extraction fan-out bound across companies.
	MaxParallel int
}

// Controller owns the sessions and drives the fallible external calls
// between phases: cache-first discovery, per-company contact extraction,
// draft generation. Session state changes only through Session methods;
// the controller never mutates fields directly.
type Controller struct {
	db       *sql.DB
	scraper  provider.JobSearcher
	searcher provider.ContactSearcher
	resolver *contacts.Resolver
	hub      *events.Hub
	log      *zap.Logger
	opts     Options

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewController(db *sql.DB, scraper provider.JobSearcher, searcher provider.ContactSearcher, resolver *contacts.Resolver, hub *events.Hub, log *zap.Logger, opts Options) *Controller {
	if opts.OwnerID == "" {
		opts.OwnerID = "local"
	}
	if len(opts.Departments) == 0 {
		opts.Departments = []string{"it", "management"}
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 4
	}
	return &Controller{
		db:       db,
		scraper:  scraper,
		searcher: searcher,
		resolver: resolver,
		hub:      hub,
		log:      log,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

func (c *Controller) CreateSession() *Session {
	s := NewSession()
	c.mu.Lock()
	c.sessions[s.ID] = s
	c.mu.Unlock()
	return s
}

func (c *Controller) Session(id string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	return s, ok
}

// RunDiscovery executes one discovery pass for a request issued by
// BeginDiscovery. Cache-first unless fresh; live provider failure falls
// back to synthetic jobs when allowed, otherwise reverts to targeting.
// Safe to run on a goroutine: stale completions are discarded by the
// session's generation guard.
func (c *Controller) RunDiscovery(ctx context.Context, s *Session, req DiscoveryRequest, fresh bool) {
	jobs, prov, err := c.discover(ctx, req, fresh)
	if err != nil {
		if apperr.IsProvider(err) && c.opts.AllowSynthetic {
			c.log.Warn("discovery provider failed, using synthetic jobs",
				zap.String("session", s.ID), zap.Error(err))
			jobs = provider.SyntheticJobs(req.Companies, req.Roles)
			prov = domain.ProvenanceSynthetic
		} else {
			c.log.Error("discovery failed", zap.String("session", s.ID), zap.Error(err))
			if s.FailDiscovery(req.Gen, err) {
				c.publish(s.ID, events.TypeDiscoveryFailed, map[string]any{"error": err.Error()})
				c.publishPhase(s)
			}
			return
		}
	}

	if s.CompleteDiscovery(req.Gen, jobs, prov) {
		c.publish(s.ID, events.TypeJobsDiscovered, map[string]any{
			"count":      len(jobs),
			"provenance": prov,
		})
		c.publishPhase(s)
	} else {
		c.log.Info("discarding stale discovery result",
			zap.String("session", s.ID), zap.Uint64("gen", req.Gen))
	}
}

func (c *Controller) discover(ctx context.Context, req DiscoveryRequest, fresh bool) ([]domain.JobView, domain.Provenance, error) {
	if !fresh {
		cached, err := store.Query(ctx, c.db, c.opts.OwnerID, store.QueryOpts{
			Keywords: req.Params.Keywords,
			Location: req.Params.Location,
		})
		if err != nil {
			return nil, "", err
		}
		if len(cached) > 0 {
			rank.ByRelevance(cached, rank.KeywordScorer{Keywords: req.Params.Keywords})
			c.log.Info("discovery served from cache",
				zap.Int("rows", len(cached)), zap.Strings("keywords", req.Params.Keywords))
			return cached, domain.ProvenanceCache, nil
		}
	}

	items, err := c.scraper.Search(ctx, req.Params)
	if err != nil {
		return nil, "", err
	}

	normalized := make([]domain.NormalizedJob, 0, len(items))
	for i, item := range items {
		normalized = append(normalized, normalize.Job(item, i))
	}

	res, err := store.UpsertBatch(ctx, c.db, c.opts.OwnerID, c.scraper.Name(), normalized, req.Params)
	if err != nil {
		return nil, "", err
	}
	rank.ByRelevance(res.Rows, rank.KeywordScorer{Keywords: req.Params.Keywords})
	c.log.Info("discovery persisted",
		zap.Int("items", len(items)), zap.Int("affected", res.Affected))
	return res.Rows, domain.ProvenanceLive, nil
}

// RunExtraction resolves one contact set per distinct company among the
// selected jobs. Companies run in parallel; one company's provider error
// never aborts the others, it just degrades that company to synthetic
// contacts. The phase always reaches outreach once every company settled.
func (c *Controller) RunExtraction(ctx context.Context, s *Session, req ExtractionRequest) {
	var (
		mu       sync.Mutex
		sets     = make(map[string]domain.ContactSet, len(req.Companies))
		warnings []string
	)

	var g errgroup.Group
	g.SetLimit(c.opts.MaxParallel)
	for _, company := range req.Companies {
		company := company
		g.Go(func() error {
			set, warn := c.extractCompany(ctx, company)
			mu.Lock()
			sets[company] = set
			if warn != "" {
				warnings = append(warnings, warn)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	drafts := make(map[string]domain.Draft)
	for company, set := range sets {
		signal := ""
		if set.Provenance == domain.ProvenanceSynthetic {
			signal = provider.SyntheticSignal(company)
		}
		role := req.CompanyRoles[company]
		for _, contact := range set.Contacts {
			d := outreach.Render(outreach.Input{
				ContactName:    contact.Name,
				ContactTitle:   contact.Title,
				Company:        company,
				Role:           role,
				ActivitySignal: signal,
			})
			d.ContactID = contact.ID
			drafts[contact.ID] = d
		}
	}

	if s.CompleteExtraction(req.Gen, sets, drafts, warnings) {
		for _, w := range warnings {
			c.publish(s.ID, events.TypeExtractionWarning, map[string]any{"warning": w})
		}
		c.publish(s.ID, events.TypeContactsExtracted, map[string]any{
			"companies": len(sets),
			"drafts":    len(drafts),
		})
		c.publishPhase(s)
	} else {
		c.log.Info("discarding stale extraction result",
			zap.String("session", s.ID), zap.Uint64("gen", req.Gen))
	}
}

// extractCompany runs the per-(seniority, department) sub-queries for one
// company and ranks the merged candidates. A provider failure with no
// usable candidates degrades to synthetic contacts plus a warning.
func (c *Controller) extractCompany(ctx context.Context, company string) (domain.ContactSet, string) {
	dom := c.resolver.Resolve(ctx, company)

	var (
		candidates []domain.Contact
		lastErr    error
	)
	for _, tier := range []domain.SeniorityTier{domain.TierExecutive, domain.TierSenior} {
		for _, dept := range c.opts.Departments {
			found, err := c.searcher.Search(ctx, provider.ContactQuery{
				Domain:     dom,
				Department: dept,
				Seniority:  tier,
			})
			if err != nil {
				lastErr = err
				c.log.Warn("contact sub-query failed",
					zap.String("company", company), zap.String("domain", dom),
					zap.String("seniority", string(tier)), zap.Error(err))
				continue
			}
			candidates = append(candidates, found...)
		}
	}

	if len(candidates) == 0 && lastErr != nil {
		if c.opts.AllowSynthetic {
			picked := contacts.PickBest(contacts.Dedupe(provider.SyntheticContacts(company)))
			return domain.ContactSet{
					Company:    company,
					Provenance: domain.ProvenanceSynthetic,
					Contacts:   picked,
				},
				fmt.Sprintf("contact search failed for %s, using sample contacts: %v", company, lastErr)
		}
		return domain.ContactSet{Company: company, Provenance: domain.ProvenanceLive},
			fmt.Sprintf("contact search failed for %s: %v", company, lastErr)
	}

	for i := range candidates {
		candidates[i].Company = company
	}
	picked := contacts.PickBest(contacts.Dedupe(candidates))
	return domain.ContactSet{
		Company:    company,
		Provenance: domain.ProvenanceLive,
		Contacts:   picked,
	}, ""
}

func (c *Controller) publish(sessionID, typ string, data any) {
	if c.hub == nil {
		return
	}
	c.hub.Publish(events.Make(sessionID, typ, data))
}

func (c *Controller) publishPhase(s *Session) {
	if c.hub == nil {
		return
	}
	c.hub.Publish(events.Make(s.ID, events.TypePhaseChanged, map[string]any{
		"phase": s.CurrentPhase(),
	}))
}
