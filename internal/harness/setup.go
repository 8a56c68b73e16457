package harness

import (
	"fmt"

	"github.com/chmouel/wcexpect/internal/config"
	"github.com/chmouel/wcexpect/internal/git"
	log "github.com/chmouel/wcexpect/internal/log"
)

// Setup loads the harness configuration and routes traces. Precedence, from
// lowest to highest: defaults, config file, global git config, overrides.
// A broken config file is reported but the defaults are still returned.
func Setup(configPath string, overrides []string) (*config.HarnessConfig, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("harness: config: %v", err)
		if cfg == nil {
			cfg = config.DefaultConfig()
		}
	}

	if git.NewClient(cfg.GitPath, nil).Available() {
		if gerr := config.ApplyGitConfig(cfg, ""); gerr != nil {
			log.Printf("harness: %v", gerr)
		}
	}
	if oerr := config.ApplyOverrides(cfg, overrides); oerr != nil {
		return cfg, oerr
	}

	if serr := log.SetFile(cfg.DebugLog); serr != nil {
		return cfg, fmt.Errorf("failed to open debug log %s: %w", cfg.DebugLog, serr)
	}
	return cfg, err
}

// Git returns a git client using the configured binary, tracing into the
// scenario's log.
func (s *Scenario) Git() *git.Client {
	return git.NewClient(s.cfg.GitPath, log.Logf("git "+s.Name))
}
