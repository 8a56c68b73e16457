package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chmouel/wcexpect/internal/config"
	log "github.com/chmouel/wcexpect/internal/log"
	"github.com/chmouel/wcexpect/internal/models"
	"github.com/chmouel/wcexpect/internal/verify"
	"github.com/chmouel/wcexpect/internal/watch"
	"github.com/chmouel/wcexpect/internal/wc"
)

// Scenario is one materialized working copy together with the model that
// describes it.
type Scenario struct {
	Name  string
	Root  string
	Model *wc.Model

	seq *Sequence
	cfg *config.HarnessConfig
}

// NewScenario allocates a fresh root under the configured scratch directory
// and materializes a copy of base into it.
func NewScenario(seq *Sequence, cfg *config.HarnessConfig, base *wc.Model) (*Scenario, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if seq == nil {
		seq = NewSequence(cfg.SequencePrefix)
	}
	name := seq.Next()
	root := filepath.Join(cfg.ScratchDir, name)

	if err := os.RemoveAll(root); err != nil {
		return nil, fmt.Errorf("failed to clear scenario root: %w", err)
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create scenario root: %w", err)
	}

	s := &Scenario{Name: name, Root: root, Model: base.Copy(), seq: seq, cfg: cfg}
	if err := s.Model.Materialize(root); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", name, err)
	}
	log.Printf("harness: scenario %s at %s (%d items)", name, root, s.Model.Len())
	return s, nil
}

// Fork materializes the scenario's current model into a new scenario. The
// two models evolve independently afterwards.
func (s *Scenario) Fork() (*Scenario, error) {
	return NewScenario(s.seq, s.cfg, s.Model)
}

// Path returns the absolute path of a model path inside the scenario.
func (s *Scenario) Path(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

// WriteFile writes content to rel on disk and records it in the model.
// The item must already be a file in the model.
func (s *Scenario) WriteFile(rel, content string) error {
	if err := os.WriteFile(s.Path(rel), []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	s.Model.SetContent(rel, content)
	return nil
}

// Record starts a change recorder over the scenario root. The caller stops it.
func (s *Scenario) Record() (*watch.Recorder, error) {
	r := watch.NewRecorder(log.Logf("watch " + s.Name))
	if err := r.Start(s.Root); err != nil {
		return nil, fmt.Errorf("scenario %s: failed to watch: %w", s.Name, err)
	}
	return r, nil
}

// VerifyOptions returns the verifier options implied by the configuration.
func (s *Scenario) VerifyOptions() []verify.Option {
	opts := []verify.Option{verify.WithMaxDiff(s.cfg.MaxDiffChars)}
	if s.cfg.CollectFailures {
		opts = append(opts, verify.Collect())
	}
	return opts
}

// CheckStatus verifies a status report of the scenario's working copy.
func (s *Scenario) CheckStatus(statuses []models.Status) error {
	return verify.Status(s.Model, statuses, s.Root, s.VerifyOptions()...)
}

// CheckListing verifies a listing rooted at basePath.
func (s *Scenario) CheckListing(entries []models.DirEntry, basePath string, recursive bool) error {
	return verify.Listing(s.Model, entries, basePath, recursive, s.VerifyOptions()...)
}

// Cleanup removes the scenario root unless artifacts are kept.
func (s *Scenario) Cleanup() error {
	if s.cfg.KeepArtifacts {
		log.Printf("harness: keeping %s", s.Root)
		return nil
	}
	return os.RemoveAll(s.Root)
}
