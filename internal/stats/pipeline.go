package stats

import (
	"fmt"
	"log/slog"
	"strings"

	apperrors "psykit/internal/errors"
)

// Step categories, run in pipeline order.
const (
	CategoryPrep    = "prep"
	CategoryTest    = "test"
	CategoryPosthoc = "posthoc"
)

// CategoryNames maps categories to their display titles.
var CategoryNames = map[string]string{
	CategoryPrep:    "Preparatory Analysis",
	CategoryTest:    "Statistical Tests",
	CategoryPosthoc: "Post-Hoc Analysis",
}

// Step is one stage of a pipeline: a category and the test to run.
type Step struct {
	Category string
	Test     string
}

// Pipeline chains statistical tests over one dataset. Params hold both
// general parameters (applied to every step that understands them) and
// category-scoped ones written as "category__param". A "groupby" param
// fans a step out over the levels of a factor.
type Pipeline struct {
	Steps  []Step
	Params map[string]string

	// Results holds the output frame per test after Apply.
	Results map[string]*Frame

	logger *slog.Logger
}

// NewPipeline validates the steps and returns a runnable pipeline.
func NewPipeline(steps []Step, params map[string]string, logger *slog.Logger) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, apperrors.EmptyInput("pipeline steps")
	}
	if logger == nil {
		logger = slog.Default()
	}
	for _, step := range steps {
		if _, ok := CategoryNames[step.Category]; !ok {
			return nil, apperrors.UnknownOption("step category", step.Category,
				[]string{CategoryPrep, CategoryTest, CategoryPosthoc})
		}
		if _, ok := testFuncs[step.Test]; !ok {
			return nil, apperrors.UnknownOption("step test", step.Test, knownTests())
		}
	}
	if params == nil {
		params = map[string]string{}
	}
	return &Pipeline{Steps: steps, Params: params, logger: logger}, nil
}

// Apply runs all steps against the dataset and stores the result frame of
// each test, keyed by test name.
func (p *Pipeline) Apply(data *Dataset) (map[string]*Frame, error) {
	if data == nil || data.Len() == 0 {
		return nil, apperrors.EmptyInput("dataset")
	}

	general, scoped := p.splitParams()
	results := make(map[string]*Frame, len(p.Steps))

	for _, step := range p.Steps {
		params := map[string]string{}
		for _, name := range testParams[step.Test] {
			if v, ok := general[name]; ok {
				params[name] = v
			}
		}
		for name, v := range scoped[step.Category] {
			if name != "groupby" {
				params[name] = v
			}
		}

		grouper := scoped[step.Category]["groupby"]
		if grouper == "" {
			grouper = general["groupby"]
		}

		p.logger.Debug("running pipeline step",
			"category", step.Category, "test", step.Test, "groupby", grouper)

		var frame *Frame
		var err error
		if grouper != "" {
			frame, err = p.applyGrouped(data, step, grouper, params)
		} else {
			frame, err = testFuncs[step.Test](data, params)
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline step %s/%s: %w", step.Category, step.Test, err)
		}

		// posthoc steps inherit the pipeline-wide padjust unless the test
		// already handled it itself
		if step.Category == CategoryPosthoc {
			if method, ok := general["padjust"]; ok && !supportsParam(step.Test, "padjust") {
				frame, err = ApplyMulticomp(frame, method)
				if err != nil {
					return nil, fmt.Errorf("pipeline step %s/%s: %w", step.Category, step.Test, err)
				}
			}
		}

		results[step.Test] = frame
	}

	p.Results = results
	return results, nil
}

func (p *Pipeline) applyGrouped(data *Dataset, step Step, grouper string, params map[string]string) (*Frame, error) {
	levels, err := data.Levels(grouper)
	if err != nil {
		return nil, err
	}
	out := &Frame{}
	for _, level := range levels {
		subset, err := data.Subset(grouper, level)
		if err != nil {
			return nil, err
		}
		frame, err := testFuncs[step.Test](subset, params)
		if err != nil {
			return nil, fmt.Errorf("group %s=%s: %w", grouper, level, err)
		}
		frame.prependColumn(grouper, level)
		out.appendFrame(frame)
	}
	return out, nil
}

// splitParams separates general parameters from "category__param" scoped
// ones.
func (p *Pipeline) splitParams() (general map[string]string, scoped map[string]map[string]string) {
	general = map[string]string{}
	scoped = map[string]map[string]string{}
	for key, value := range p.Params {
		parts := strings.SplitN(key, "__", 2)
		if len(parts) == 1 {
			general[key] = value
			continue
		}
		if scoped[parts[0]] == nil {
			scoped[parts[0]] = map[string]string{}
		}
		scoped[parts[0]][parts[1]] = value
	}
	return general, scoped
}

// CategorySteps returns the test names of all steps in a category, in
// pipeline order.
func (p *Pipeline) CategorySteps(category string) []string {
	var out []string
	for _, step := range p.Steps {
		if step.Category == category {
			out = append(out, step.Test)
		}
	}
	return out
}

// ResultsCategory returns the result frames of one category, keyed by
// test name. Empty before Apply was called.
func (p *Pipeline) ResultsCategory(category string) map[string]*Frame {
	out := map[string]*Frame{}
	if p.Results == nil {
		return out
	}
	for _, test := range p.CategorySteps(category) {
		if frame, ok := p.Results[test]; ok {
			out[test] = frame
		}
	}
	return out
}

func supportsParam(test, param string) bool {
	for _, name := range testParams[test] {
		if name == param {
			return true
		}
	}
	return false
}

func knownTests() []string {
	return []string{TestNormality, TestEqualVar, TestANOVA, TestWelchANOVA, TestKruskal, TestPairwiseTTests}
}
