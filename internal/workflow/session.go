package workflow

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"footin-engine/internal/apperr"
	"footin-engine/internal/domain"
)

const maxTargets = 5

// Session is one user's walk through the funnel. A session has a single
// logical owner, so the mutex only defends against the engine's own async
// provider completions, not concurrent owners.
//
// Generation increases on every phase change and reset. Async work
// captures the generation it was issued under; completions whose
// generation no longer matches are discarded, which is how results from
// stale provider calls are ignored after a back or reset.
type Session struct {
	mu sync.Mutex

	ID         string
	Phase      Phase
	Generation uint64

	TargetCompanies []string
	TargetRoles     []string

	Jobs           []domain.JobView
	JobsProvenance domain.Provenance
	SelectedJobIDs map[int64]bool

	ContactsByCompany  map[string]domain.ContactSet
	Drafts             map[string]domain.Draft
	SelectedContactIDs map[string]bool

	Warnings  []string
	LastError string
}

func NewSession() *Session {
	s := &Session{ID: uuid.NewString()}
	s.resetLocked()
	return s
}

func (s *Session) resetLocked() {
	s.Phase = PhaseTargeting
	s.Generation++
	s.TargetCompanies = nil
	s.TargetRoles = nil
	s.Jobs = nil
	s.JobsProvenance = ""
	s.SelectedJobIDs = make(map[int64]bool)
	s.ContactsByCompany = make(map[string]domain.ContactSet)
	s.Drafts = make(map[string]domain.Draft)
	s.SelectedContactIDs = make(map[string]bool)
	s.Warnings = nil
	s.LastError = ""
}

// Reset returns the session to its initial empty targeting state from any
// phase. The generation bump orphans all in-flight provider calls.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// SetTargets validates and stores the targeting input: 1..5 companies and
// 1..5 roles, ordered, de-duplicated case-insensitively. Legal only while
// the session is in targeting.
func (s *Session) SetTargets(companies, roles []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Phase != PhaseTargeting {
		return apperr.Validation("phase", "targets can only change while targeting (currently %s)", s.Phase)
	}

	cs := dedupeTrimmed(companies)
	rs := dedupeTrimmed(roles)
	if len(cs) == 0 {
		return apperr.Validation("companies", "at least one target company is required")
	}
	if len(rs) == 0 {
		return apperr.Validation("roles", "at least one target role is required")
	}
	if len(cs) > maxTargets {
		return apperr.Validation("companies", "at most %d target companies", maxTargets)
	}
	if len(rs) > maxTargets {
		return apperr.Validation("roles", "at most %d target roles", maxTargets)
	}

	s.TargetCompanies = cs
	s.TargetRoles = rs
	return nil
}

// DiscoveryRequest snapshots everything an async discovery run needs so
// later target edits cannot leak into an in-flight run.
type DiscoveryRequest struct {
	Gen       uint64
	Companies []string
	Roles     []string
	Params    domain.SearchParams
}

// BeginDiscovery moves targeting → processing. Guard: at least one target
// company and one target role.
func (s *Session) BeginDiscovery(location, recency string) (DiscoveryRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Phase != PhaseTargeting {
		return DiscoveryRequest{}, apperr.Validation("phase", "discovery starts from targeting (currently %s)", s.Phase)
	}
	if len(s.TargetCompanies) == 0 || len(s.TargetRoles) == 0 {
		return DiscoveryRequest{}, apperr.Validation("targets", "need at least one company and one role")
	}

	s.Phase = PhaseProcessing
	s.Generation++
	s.LastError = ""

	return DiscoveryRequest{
		Gen:       s.Generation,
		Companies: append([]string(nil), s.TargetCompanies...),
		Roles:     append([]string(nil), s.TargetRoles...),
		Params: domain.SearchParams{
			Keywords:      append([]string(nil), s.TargetRoles...),
			Location:      location,
			RecencyWindow: recency,
		},
	}, nil
}

// CompleteDiscovery applies a discovery result. Returns false when the
// result is stale (generation moved on) and was discarded.
func (s *Session) CompleteDiscovery(gen uint64, jobs []domain.JobView, prov domain.Provenance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Generation != gen || s.Phase != PhaseProcessing {
		return false
	}
	s.Jobs = jobs
	s.JobsProvenance = prov
	s.Phase = PhaseDiscovery
	s.Generation++
	return true
}

// FailDiscovery reverts processing → targeting without touching the
// discovered jobs. Returns false for stale failures.
func (s *Session) FailDiscovery(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Generation != gen || s.Phase != PhaseProcessing {
		return false
	}
	s.Phase = PhaseTargeting
	s.Generation++
	if err != nil {
		s.LastError = err.Error()
	}
	return true
}

// ToggleJob flips a discovered job in or out of the selection set. The
// first selection moves discovery → selection automatically.
func (s *Session) ToggleJob(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Phase != PhaseDiscovery && s.Phase != PhaseSelection {
		return apperr.Validation("phase", "job selection needs a discovery result (currently %s)", s.Phase)
	}
	if !s.hasJobLocked(id) {
		return apperr.Validation("jobId", "job %d is not in the discovered set", id)
	}

	if s.SelectedJobIDs[id] {
		delete(s.SelectedJobIDs, id)
	} else {
		s.SelectedJobIDs[id] = true
	}
	if s.Phase == PhaseDiscovery && len(s.SelectedJobIDs) > 0 {
		s.Phase = PhaseSelection
		s.Generation++
	}
	return nil
}

// ExtractionRequest snapshots the distinct companies among selected jobs,
// in discovery order, plus the role used for each company's drafts.
type ExtractionRequest struct {
	Gen          uint64
	Companies    []string
	CompanyRoles map[string]string
}

// BeginExtraction moves selection → extraction. Guard: selection set is
// non-empty; otherwise the phase is left unchanged.
func (s *Session) BeginExtraction() (ExtractionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Phase != PhaseSelection {
		return ExtractionRequest{}, apperr.Validation("phase", "extraction starts from selection (currently %s)", s.Phase)
	}
	if len(s.SelectedJobIDs) == 0 {
		return ExtractionRequest{}, apperr.Validation("selectedJobIds", "select at least one job first")
	}

	var companies []string
	roles := make(map[string]string)
	for _, j := range s.Jobs {
		if !s.SelectedJobIDs[j.ID] || j.CompanyName == "" {
			continue
		}
		if _, ok := roles[j.CompanyName]; ok {
			continue
		}
		roles[j.CompanyName] = j.Title
		companies = append(companies, j.CompanyName)
	}

	s.Phase = PhaseExtraction
	s.Generation++

	return ExtractionRequest{
		Gen:          s.Generation,
		Companies:    companies,
		CompanyRoles: roles,
	}, nil
}

// CompleteExtraction applies per-company contact sets and drafts and
// advances to outreach. Extraction never fails the whole batch; companies
// whose provider call broke arrive as synthetic sets with a warning.
func (s *Session) CompleteExtraction(gen uint64, sets map[string]domain.ContactSet, drafts map[string]domain.Draft, warnings []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Generation != gen || s.Phase != PhaseExtraction {
		return false
	}
	s.ContactsByCompany = sets
	s.Drafts = drafts
	s.Warnings = warnings
	s.Phase = PhaseOutreach
	s.Generation++
	return true
}

// ToggleContact marks or unmarks a contact for manual send.
func (s *Session) ToggleContact(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Phase != PhaseOutreach {
		return apperr.Validation("phase", "contact selection happens in outreach (currently %s)", s.Phase)
	}
	if !s.hasContactLocked(id) {
		return apperr.Validation("contactId", "contact %s is not in the extracted set", id)
	}
	if s.SelectedContactIDs[id] {
		delete(s.SelectedContactIDs, id)
	} else {
		s.SelectedContactIDs[id] = true
	}
	return nil
}

// Back performs an explicit backward jump. Only the navigations listed in
// backJumps are legal; everything else must go through Reset.
func (s *Session) Back(to Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !to.Valid() {
		return apperr.Validation("phase", "unknown phase %q", to)
	}
	if !backAllowed(s.Phase, to) {
		return apperr.Validation("phase", "cannot go back from %s to %s", s.Phase, to)
	}
	s.Phase = to
	s.Generation++
	return nil
}

func (s *Session) hasJobLocked(id int64) bool {
	for _, j := range s.Jobs {
		if j.ID == id {
			return true
		}
	}
	return false
}

func (s *Session) hasContactLocked(id string) bool {
	for _, set := range s.ContactsByCompany {
		for _, c := range set.Contacts {
			if c.ID == id {
				return true
			}
		}
	}
	return false
}

// Snapshot is the read-only view handed to the HTTP layer.
type Snapshot struct {
	ID                 string                       `json:"id"`
	Phase              Phase                        `json:"phase"`
	TargetCompanies    []string                     `json:"targetCompanies"`
	TargetRoles        []string                     `json:"targetRoles"`
	Jobs               []domain.JobView             `json:"jobs"`
	JobsProvenance     domain.Provenance            `json:"jobsProvenance,omitempty"`
	SelectedJobIDs     []int64                      `json:"selectedJobIds"`
	ContactsByCompany  map[string]domain.ContactSet `json:"contactsByCompany"`
	Drafts             map[string]domain.Draft      `json:"drafts"`
	SelectedContactIDs []string                     `json:"selectedContactIds"`
	Warnings           []string                     `json:"warnings,omitempty"`
	LastError          string                       `json:"lastError,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:                 s.ID,
		Phase:              s.Phase,
		TargetCompanies:    append([]string(nil), s.TargetCompanies...),
		TargetRoles:        append([]string(nil), s.TargetRoles...),
		Jobs:               append([]domain.JobView(nil), s.Jobs...),
		JobsProvenance:     s.JobsProvenance,
		SelectedJobIDs:     make([]int64, 0, len(s.SelectedJobIDs)),
		ContactsByCompany:  make(map[string]domain.ContactSet, len(s.ContactsByCompany)),
		Drafts:             make(map[string]domain.Draft, len(s.Drafts)),
		SelectedContactIDs: make([]string, 0, len(s.SelectedContactIDs)),
		Warnings:           append([]string(nil), s.Warnings...),
		LastError:          s.LastError,
	}
	for _, j := range s.Jobs {
		if s.SelectedJobIDs[j.ID] {
			snap.SelectedJobIDs = append(snap.SelectedJobIDs, j.ID)
		}
	}
	for company, set := range s.ContactsByCompany {
		snap.ContactsByCompany[company] = set
	}
	for id, d := range s.Drafts {
		snap.Drafts[id] = d
	}
	for id := range s.SelectedContactIDs {
		snap.SelectedContactIDs = append(snap.SelectedContactIDs, id)
	}
	return snap
}

// CurrentPhase reads the phase without exposing the whole snapshot.
func (s *Session) CurrentPhase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Phase
}

func dedupeTrimmed(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	var out []string
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		key := strings.ToLower(x)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, x)
	}
	return out
}
