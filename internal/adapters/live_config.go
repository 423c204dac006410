package adapters

import (
	"fmt"
	"os"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"kconfresolve/internal/ports"
	"kconfresolve/internal/types"
)

// LiveConfigAdapter is the mutable ports.FeatureModelPort C8 writes
// fixes into: every SetValue is validated against the feature's known
// domain and persisted to a YAML config file immediately, so a crash
// mid-apply never loses already-applied fixes.
type LiveConfigAdapter struct {
	mu    sync.Mutex
	path  string
	model types.FeatureModel
}

func NewLiveConfigAdapter(path string, model types.FeatureModel) *LiveConfigAdapter {
	return &LiveConfigAdapter{path: path, model: model}
}

func (a *LiveConfigAdapter) Snapshot() types.FeatureModel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model
}

func (a *LiveConfigAdapter) SetValue(feature, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, ok := a.model.Get(feature)
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown feature %q", feature))
	}
	if f.Type.Tristateish() && !types.Tristate(value).Valid() {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid tristate value %q for %q", value, feature))
	}
	if !f.Type.Tristateish() && len(f.Values) > 0 && value != "" && !containsString(f.Values, value) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("value %q is not in %q's known domain", value, feature))
	}
	f.Value = value
	return a.persist()
}

func (a *LiveConfigAdapter) persist() error {
	if a.path == "" {
		return nil
	}
	out := configSnapshot{Values: map[string]string{}}
	for _, name := range a.model.Order {
		out.Values[name] = a.model.Features[name].Value
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("marshal live config").
			WithCause(err)
	}
	if err := os.WriteFile(a.path, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("persist live config").
			WithCause(err)
	}
	return nil
}

type configSnapshot struct {
	Values map[string]string `yaml:"values"`
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

var _ ports.FeatureModelPort = (*LiveConfigAdapter)(nil)
