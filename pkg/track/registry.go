// Package track provides the read-only registry of per-circuit
// characteristics consumed by the degradation and strategy components.
package track

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pitwall/strategy-engine/log"
	"github.com/pitwall/strategy-engine/pkg/model"
)

// ErrEmptyTrackName is returned for a structurally invalid lookup.
// Every other lookup resolves, unknown tracks get the default profile.
var ErrEmptyTrackName = errors.New("track name must not be empty")

type (
	Registry struct {
		profiles map[string]model.TrackProfile
		fallback model.TrackProfile
		l        *log.Logger
	}
	Option func(r *Registry) error

	overlayFile struct {
		Profiles []model.TrackProfile `yaml:"profiles"`
	}
)

// WithOverlayFile merges profiles from a YAML file over the builtin set.
// Entries match by (case-insensitive) name and replace whole profiles.
func WithOverlayFile(path string) Option {
	return func(r *Registry) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open track profile overlay: %w", err)
		}
		defer f.Close()
		return r.mergeOverlay(f)
	}
}

// WithOverlay merges profiles read from r over the builtin set.
func WithOverlay(reader io.Reader) Option {
	return func(r *Registry) error {
		return r.mergeOverlay(reader)
	}
}

// New builds a registry from the builtin profiles plus any overlays.
// The returned registry is immutable and safe for concurrent use.
func New(opts ...Option) (*Registry, error) {
	ret := &Registry{
		profiles: make(map[string]model.TrackProfile),
		fallback: defaultProfile,
		l:        log.Default().Named("track"),
	}
	for _, p := range builtinProfiles {
		ret.profiles[normalize(p.Name)] = p
	}
	for _, opt := range opts {
		if err := opt(ret); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (r *Registry) mergeOverlay(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("read track profile overlay: %w", err)
	}
	var overlay overlayFile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse track profile overlay: %w", err)
	}
	for _, p := range overlay.Profiles {
		if p.Name == "" {
			r.l.Warn("skipping overlay profile without name")
			continue
		}
		if normalize(p.Name) == normalize(r.fallback.Name) {
			r.fallback = p
			continue
		}
		r.profiles[normalize(p.Name)] = p
	}
	r.l.Info("track profile overlay merged",
		log.Int("profiles", len(overlay.Profiles)))
	return nil
}

// Get resolves a profile by track name. Unknown names resolve to the
// default profile carrying the requested name; only an empty name errors.
func (r *Registry) Get(name string) (model.TrackProfile, error) {
	if strings.TrimSpace(name) == "" {
		return model.TrackProfile{}, ErrEmptyTrackName
	}
	if p, ok := r.profiles[normalize(name)]; ok {
		return p, nil
	}
	r.l.Debug("unknown track, using default profile", log.String("track", name))
	p := r.fallback
	p.Name = name
	return p, nil
}

// Names returns the known track names in sorted order.
func (r *Registry) Names() []string {
	ret := make([]string, 0, len(r.profiles))
	for _, p := range r.profiles {
		ret = append(ret, p.Name)
	}
	sort.Strings(ret)
	return ret
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
