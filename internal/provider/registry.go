package provider

import (
	"fmt"
	"log"
	"sort"

	"invoiceocr/internal/config"
	"invoiceocr/internal/domain"
	"invoiceocr/internal/port"
)

// Factory builds an Extractor from a provider config.
type Factory func(cfg *config.ProviderConfig) (port.Extractor, error)

type registration struct {
	displayName string
	factory     Factory
}

// Registry maps OCR modes to provider factories. It is filled once at
// startup and only read afterwards.
type Registry struct {
	providers map[string]registration
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{providers: map[string]registration{}}
}

// Register adds a provider factory under mode.
func (r *Registry) Register(mode, displayName string, factory Factory) {
	r.providers[mode] = registration{displayName: displayName, factory: factory}
}

// Modes returns the registered modes in sorted order.
func (r *Registry) Modes() []string {
	modes := make([]string, 0, len(r.providers))
	for m := range r.providers {
		modes = append(modes, m)
	}
	sort.Strings(modes)
	return modes
}

// Selection is the outcome of initializing the configured provider. It is
// immutable and safe to share between requests.
type Selection struct {
	Mode        string
	DisplayName string
	Extractor   port.Extractor
	Err         error
}

// Connected reports whether an extractor is ready to serve requests.
func (s *Selection) Connected() bool {
	return s.Extractor != nil
}

// Ready returns nil when requests can be served, otherwise the reason they cannot.
func (s *Selection) Ready() error {
	if s.Extractor != nil {
		return nil
	}
	return s.Err
}

// Initialize builds the extractor for cfg.Mode. Failures are recorded on the
// returned Selection rather than returned, so the server can still start and
// report the problem through the health endpoint.
func (r *Registry) Initialize(cfg *config.OCRConfig) *Selection {
	sel := &Selection{Mode: cfg.Mode}

	reg, ok := r.providers[cfg.Mode]
	providerCfg := cfg.Active()
	if !ok || providerCfg == nil {
		sel.DisplayName = "unknown"
		sel.Err = fmt.Errorf("%w %q: use one of %v", domain.ErrInvalidMode, cfg.Mode, r.Modes())
		log.Printf("provider.Registry: %v", sel.Err)
		return sel
	}
	sel.DisplayName = reg.displayName

	extractor, err := reg.factory(providerCfg)
	if err != nil {
		sel.Err = fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, reg.displayName, err)
		log.Printf("provider.Registry: %s failed to initialize: %v", reg.displayName, err)
		return sel
	}

	sel.Extractor = extractor
	log.Printf("provider.Registry: %s connected (model %s)", reg.displayName, providerCfg.DefaultModel)
	return sel
}
