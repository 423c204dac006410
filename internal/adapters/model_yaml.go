package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"kconfresolve/internal/ports"
	"kconfresolve/internal/types"
)

// modelFile is the on-disk YAML shape a ModelFileAdapter reads, grounded
// on the teacher's RepoIndexFileAdapter pattern of decoding straight
// into a transport struct before lifting it into the domain type.
type modelFile struct {
	ModulesFeature string             `yaml:"modules_feature"`
	Features       []featureFile      `yaml:"features"`
}

type featureFile struct {
	Name       string           `yaml:"name"`
	Type       string           `yaml:"type"`
	Value      string           `yaml:"value"`
	PromptText string           `yaml:"prompt,omitempty"`
	PromptIf   string           `yaml:"prompt_if,omitempty"`
	DependsOn  string           `yaml:"depends_on,omitempty"`
	Defaults   []defaultFile    `yaml:"defaults,omitempty"`
	Selects    []selectFile     `yaml:"selects,omitempty"`
	Ranges     []rangeFile      `yaml:"ranges,omitempty"`
	Members    []string         `yaml:"members,omitempty"`
	GroupName  string           `yaml:"group,omitempty"`
	Optional   bool             `yaml:"optional,omitempty"`
	Values     []string         `yaml:"values,omitempty"`
}

type defaultFile struct {
	Value string `yaml:"value"`
	If    string `yaml:"if,omitempty"`
}

type selectFile struct {
	Target string `yaml:"target"`
	If     string `yaml:"if,omitempty"`
}

type rangeFile struct {
	Lo string `yaml:"lo"`
	Hi string `yaml:"hi"`
	If string `yaml:"if,omitempty"`
}

// ModelFileAdapter is C1's ports.FeatureModelLoaderPort implementation:
// it parses a YAML feature model and compiles each rule-expression field
// (a small boolean grammar over feature names, "y"/"m"/"n", "&&", "||",
// "!", "==", "!=", "<", "<=", ">", ">=") via RuleExprParser.
type ModelFileAdapter struct{}

func NewModelFileAdapter() ModelFileAdapter { return ModelFileAdapter{} }

func (a ModelFileAdapter) LoadModel(path string) (types.FeatureModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.FeatureModel{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("feature model file not found").
			WithCause(err)
	}
	var raw modelFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return types.FeatureModel{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid feature model format").
			WithCause(err)
	}

	model := types.NewFeatureModel()
	model.ModulesFeature = raw.ModulesFeature
	parser := NewRuleExprParser()

	for _, rf := range raw.Features {
		f := &types.Feature{
			Name:      rf.Name,
			Type:      types.FeatureType(rf.Type),
			Value:     rf.Value,
			Members:   rf.Members,
			GroupName: rf.GroupName,
			Optional:  rf.Optional,
			Values:    rf.Values,
		}
		if rf.PromptText != "" || rf.PromptIf != "" {
			visible, err := parser.ParseOptional(rf.PromptIf)
			if err != nil {
				return types.FeatureModel{}, invalidRule(rf.Name, "prompt_if", err)
			}
			f.Prompt = &types.Prompt{Text: rf.PromptText, Visible: visible}
		}
		if rf.DependsOn != "" {
			dep, err := parser.Parse(rf.DependsOn)
			if err != nil {
				return types.FeatureModel{}, invalidRule(rf.Name, "depends_on", err)
			}
			f.DirectDep = dep
		}
		for _, d := range rf.Defaults {
			cond, err := parser.ParseOptional(d.If)
			if err != nil {
				return types.FeatureModel{}, invalidRule(rf.Name, "defaults.if", err)
			}
			f.Defaults = append(f.Defaults, types.Default{Value: d.Value, Cond: cond})
		}
		for _, s := range rf.Selects {
			cond, err := parser.ParseOptional(s.If)
			if err != nil {
				return types.FeatureModel{}, invalidRule(rf.Name, "selects.if", err)
			}
			f.Selects = append(f.Selects, types.Select{Target: s.Target, Cond: cond})
		}
		for _, r := range rf.Ranges {
			cond, err := parser.ParseOptional(r.If)
			if err != nil {
				return types.FeatureModel{}, invalidRule(rf.Name, "ranges.if", err)
			}
			base := 10
			if f.Type == types.FeatureHex {
				base = 16
			}
			f.Ranges = append(f.Ranges, types.RangeClause{Lo: r.Lo, Hi: r.Hi, Cond: cond, Base: base})
		}
		model.Add(f)
	}

	// second pass: accumulate reverse dependencies from every select so
	// C4's direct-dependency constraint can treat "selected" as an
	// alternative route to satisfaction (spec.md §4.3 item 3).
	for _, name := range model.Order {
		f := model.Features[name]
		for _, s := range f.Selects {
			target, ok := model.Get(s.Target)
			if !ok {
				continue
			}
			reverse := types.Symbol(name)
			if s.Cond != nil {
				reverse = types.And(reverse, s.Cond)
			}
			if target.ReverseDep == nil {
				target.ReverseDep = reverse
			} else {
				target.ReverseDep = types.Or(target.ReverseDep, reverse)
			}
		}
	}

	return model, nil
}

func invalidRule(feature, field string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("feature " + feature + ": invalid " + field + " expression").
		WithCause(cause)
}

var _ ports.FeatureModelLoaderPort = ModelFileAdapter{}
