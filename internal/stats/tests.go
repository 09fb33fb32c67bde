package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "psykit/internal/errors"
)

// Test names accepted in pipeline steps.
const (
	TestNormality      = "normality"
	TestEqualVar       = "equal_var"
	TestANOVA          = "anova"
	TestWelchANOVA     = "welch_anova"
	TestKruskal        = "kruskal"
	TestPairwiseTTests = "pairwise_ttests"
)

// TestNames maps test identifiers to their display titles, used as sheet
// headers in the Excel export.
var TestNames = map[string]string{
	TestNormality:      "Test for Normal Distribution",
	TestEqualVar:       "Test for Homoscedasticity (Equal Variances)",
	TestANOVA:          "ANOVA",
	TestWelchANOVA:     "Welch ANOVA",
	TestKruskal:        "Kruskal-Wallis H-test for independent samples",
	TestPairwiseTTests: "Pairwise t-Tests",
}

// testParams lists, per test, which general pipeline parameters it
// consumes.
var testParams = map[string][]string{
	TestNormality:      {"dv", "group"},
	TestEqualVar:       {"dv", "group"},
	TestANOVA:          {"dv", "between"},
	TestWelchANOVA:     {"dv", "between"},
	TestKruskal:        {"dv", "between"},
	TestPairwiseTTests: {"dv", "between", "effsize", "alternative", "padjust"},
}

type testFunc func(data *Dataset, params map[string]string) (*Frame, error)

var testFuncs = map[string]testFunc{
	TestNormality:      Normality,
	TestEqualVar:       EqualVar,
	TestANOVA:          ANOVA,
	TestWelchANOVA:     WelchANOVA,
	TestKruskal:        Kruskal,
	TestPairwiseTTests: PairwiseTTests,
}

func requireParam(params map[string]string, name, test string) (string, error) {
	v, ok := params[name]
	if !ok || v == "" {
		return "", apperrors.MissingParameter(name, fmt.Sprintf("running %s", test))
	}
	return v, nil
}

// Normality runs a Jarque-Bera test per group level (or once over the
// whole value column when no group parameter is set). The statistic is
// chi-squared distributed with two degrees of freedom under normality.
func Normality(data *Dataset, params map[string]string) (*Frame, error) {
	dv, err := requireParam(params, "dv", TestNormality)
	if err != nil {
		return nil, err
	}

	frame := &Frame{Columns: []string{"group", "W", "pval", "normal"}}
	group := params["group"]
	if group == "" {
		w, p, err := jarqueBera(data.Values[dv])
		if err != nil {
			return nil, err
		}
		frame.Rows = append(frame.Rows, []any{"all", w, p, p >= 0.05})
		return frame, nil
	}

	levels, groups, err := data.GroupValues(dv, group)
	if err != nil {
		return nil, err
	}
	for i, level := range levels {
		w, p, err := jarqueBera(groups[i])
		if err != nil {
			return nil, err
		}
		frame.Rows = append(frame.Rows, []any{level, w, p, p >= 0.05})
	}
	return frame, nil
}

func jarqueBera(x []float64) (w, pval float64, err error) {
	n := len(x)
	if n < 4 {
		return 0, 0, apperrors.InsufficientData("normality test", 4, n)
	}
	mean := stat.Mean(x, nil)
	var m2, m3, m4 float64
	for _, v := range x {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
		m4 += d * d * d * d
	}
	fn := float64(n)
	m2 /= fn
	m3 /= fn
	m4 /= fn
	if m2 == 0 {
		return math.NaN(), math.NaN(), nil
	}
	skew := m3 / math.Pow(m2, 1.5)
	kurt := m4/(m2*m2) - 3
	w = fn / 6 * (skew*skew + kurt*kurt/4)
	chi2 := distuv.ChiSquared{K: 2}
	pval = 1 - chi2.CDF(w)
	return w, pval, nil
}

// EqualVar runs a Brown-Forsythe test (Levene with median centering) for
// equal variances across group levels.
func EqualVar(data *Dataset, params map[string]string) (*Frame, error) {
	dv, err := requireParam(params, "dv", TestEqualVar)
	if err != nil {
		return nil, err
	}
	group, err := requireParam(params, "group", TestEqualVar)
	if err != nil {
		return nil, err
	}
	_, groups, err := data.GroupValues(dv, group)
	if err != nil {
		return nil, err
	}
	if len(groups) < 2 {
		return nil, apperrors.InsufficientData("variance test groups", 2, len(groups))
	}

	k := len(groups)
	total := 0
	devs := make([][]float64, k)
	for i, g := range groups {
		if len(g) < 2 {
			return nil, apperrors.InsufficientData("variance test group size", 2, len(g))
		}
		total += len(g)
		med := median(g)
		devs[i] = make([]float64, len(g))
		for j, v := range g {
			devs[i][j] = math.Abs(v - med)
		}
	}

	var grand, count float64
	groupMeans := make([]float64, k)
	for i, d := range devs {
		groupMeans[i] = stat.Mean(d, nil)
		for _, v := range d {
			grand += v
			count++
		}
	}
	grand /= count

	var numer, denom float64
	for i, d := range devs {
		numer += float64(len(d)) * (groupMeans[i] - grand) * (groupMeans[i] - grand)
		for _, v := range d {
			denom += (v - groupMeans[i]) * (v - groupMeans[i])
		}
	}
	w := (float64(total-k) / float64(k-1)) * numer / denom
	fdist := distuv.F{D1: float64(k - 1), D2: float64(total - k)}
	pval := 1 - fdist.CDF(w)

	return &Frame{
		Columns: []string{"W", "pval", "equal_var"},
		Rows:    [][]any{{w, pval, pval >= 0.05}},
	}, nil
}

// ANOVA runs a classic one-way analysis of variance of dv across the
// levels of the between factor.
func ANOVA(data *Dataset, params map[string]string) (*Frame, error) {
	dv, err := requireParam(params, "dv", TestANOVA)
	if err != nil {
		return nil, err
	}
	between, err := requireParam(params, "between", TestANOVA)
	if err != nil {
		return nil, err
	}
	_, groups, err := data.GroupValues(dv, between)
	if err != nil {
		return nil, err
	}
	if len(groups) < 2 {
		return nil, apperrors.InsufficientData("anova groups", 2, len(groups))
	}

	k := len(groups)
	var total int
	var grandSum float64
	for _, g := range groups {
		if len(g) < 2 {
			return nil, apperrors.InsufficientData("anova group size", 2, len(g))
		}
		total += len(g)
		for _, v := range g {
			grandSum += v
		}
	}
	grandMean := grandSum / float64(total)

	var ssBetween, ssWithin float64
	for _, g := range groups {
		m := stat.Mean(g, nil)
		ssBetween += float64(len(g)) * (m - grandMean) * (m - grandMean)
		for _, v := range g {
			ssWithin += (v - m) * (v - m)
		}
	}

	ddof1 := k - 1
	ddof2 := total - k
	f := (ssBetween / float64(ddof1)) / (ssWithin / float64(ddof2))
	fdist := distuv.F{D1: float64(ddof1), D2: float64(ddof2)}
	pval := 1 - fdist.CDF(f)
	np2 := ssBetween / (ssBetween + ssWithin)

	return &Frame{
		Columns: []string{"Source", "ddof1", "ddof2", "F", "p-unc", "np2"},
		Rows:    [][]any{{between, ddof1, ddof2, f, pval, np2}},
	}, nil
}

// WelchANOVA runs a one-way ANOVA that does not assume equal group
// variances (Welch's correction).
func WelchANOVA(data *Dataset, params map[string]string) (*Frame, error) {
	dv, err := requireParam(params, "dv", TestWelchANOVA)
	if err != nil {
		return nil, err
	}
	between, err := requireParam(params, "between", TestWelchANOVA)
	if err != nil {
		return nil, err
	}
	_, groups, err := data.GroupValues(dv, between)
	if err != nil {
		return nil, err
	}
	k := len(groups)
	if k < 2 {
		return nil, apperrors.InsufficientData("anova groups", 2, k)
	}

	weights := make([]float64, k)
	means := make([]float64, k)
	var sumW, sumWM float64
	for i, g := range groups {
		if len(g) < 2 {
			return nil, apperrors.InsufficientData("anova group size", 2, len(g))
		}
		v := stat.Variance(g, nil)
		if v == 0 {
			return nil, apperrors.NewWithDetails(apperrors.CodeValidationFailed,
				"group has zero variance", i)
		}
		weights[i] = float64(len(g)) / v
		means[i] = stat.Mean(g, nil)
		sumW += weights[i]
		sumWM += weights[i] * means[i]
	}
	adjGrandMean := sumWM / sumW

	var numer, lambdaSum float64
	for i, g := range groups {
		numer += weights[i] * (means[i] - adjGrandMean) * (means[i] - adjGrandMean)
		frac := 1 - weights[i]/sumW
		lambdaSum += frac * frac / float64(len(g)-1)
	}
	ddof1 := float64(k - 1)
	numer /= ddof1
	lambda := 3 * lambdaSum / (float64(k)*float64(k) - 1)
	f := numer / (1 + 2*lambda*(float64(k)-2)/3)
	ddof2 := 1 / lambda

	fdist := distuv.F{D1: ddof1, D2: ddof2}
	pval := 1 - fdist.CDF(f)
	np2 := f * ddof1 / (f*ddof1 + ddof2)

	return &Frame{
		Columns: []string{"Source", "ddof1", "ddof2", "F", "p-unc", "np2"},
		Rows:    [][]any{{between, int(ddof1), ddof2, f, pval, np2}},
	}, nil
}

// Kruskal runs a Kruskal-Wallis H-test with tie correction.
func Kruskal(data *Dataset, params map[string]string) (*Frame, error) {
	dv, err := requireParam(params, "dv", TestKruskal)
	if err != nil {
		return nil, err
	}
	between, err := requireParam(params, "between", TestKruskal)
	if err != nil {
		return nil, err
	}
	_, groups, err := data.GroupValues(dv, between)
	if err != nil {
		return nil, err
	}
	k := len(groups)
	if k < 2 {
		return nil, apperrors.InsufficientData("kruskal groups", 2, k)
	}

	var all []float64
	sizes := make([]int, k)
	for i, g := range groups {
		sizes[i] = len(g)
		all = append(all, g...)
	}
	n := len(all)
	ranks, tieCorrection := rankWithTies(all)

	var h float64
	offset := 0
	for i := range groups {
		var rankSum float64
		for j := 0; j < sizes[i]; j++ {
			rankSum += ranks[offset+j]
		}
		h += rankSum * rankSum / float64(sizes[i])
		offset += sizes[i]
	}
	fn := float64(n)
	h = 12/(fn*(fn+1))*h - 3*(fn+1)
	if tieCorrection > 0 {
		h /= tieCorrection
	}

	chi2 := distuv.ChiSquared{K: float64(k - 1)}
	pval := 1 - chi2.CDF(h)

	return &Frame{
		Columns: []string{"Source", "ddof1", "H", "p-unc"},
		Rows:    [][]any{{between, k - 1, h, pval}},
	}, nil
}

// PairwiseTTests runs Welch t-tests between all level pairs of the
// between factor. The effsize parameter selects "cohen" (default) or
// "hedges"; padjust, when set, corrects the p-values across comparisons.
func PairwiseTTests(data *Dataset, params map[string]string) (*Frame, error) {
	dv, err := requireParam(params, "dv", TestPairwiseTTests)
	if err != nil {
		return nil, err
	}
	between, err := requireParam(params, "between", TestPairwiseTTests)
	if err != nil {
		return nil, err
	}
	effsize := params["effsize"]
	if effsize == "" {
		effsize = "cohen"
	}
	if effsize != "cohen" && effsize != "hedges" {
		return nil, apperrors.UnknownOption("effsize", effsize, []string{"cohen", "hedges"})
	}
	alternative := params["alternative"]
	if alternative == "" {
		alternative = "two-sided"
	}

	levels, groups, err := data.GroupValues(dv, between)
	if err != nil {
		return nil, err
	}
	if len(levels) < 2 {
		return nil, apperrors.InsufficientData("pairwise comparison groups", 2, len(levels))
	}

	frame := &Frame{Columns: []string{"Contrast", "A", "B", "T", "dof", "alternative", "p-unc", effsize}}
	var pvals []float64
	for i := 0; i < len(levels); i++ {
		for j := i + 1; j < len(levels); j++ {
			t, dof, p, d, err := welchTTest(groups[i], groups[j], alternative, effsize)
			if err != nil {
				return nil, err
			}
			frame.Rows = append(frame.Rows, []any{between, levels[i], levels[j], t, dof, alternative, p, d})
			pvals = append(pvals, p)
		}
	}

	if method := params["padjust"]; method != "" && method != "none" {
		corrected, err := Multicomp(pvals, method)
		if err != nil {
			return nil, err
		}
		frame.SetFloats("p-corr", corrected)
		frame.SetConstant("p-adjust", method)
	}
	return frame, nil
}

func welchTTest(a, b []float64, alternative, effsize string) (t, dof, pval, es float64, err error) {
	na, nb := float64(len(a)), float64(len(b))
	if len(a) < 2 || len(b) < 2 {
		return 0, 0, 0, 0, apperrors.InsufficientData("t-test group size", 2, min(len(a), len(b)))
	}
	ma, mb := stat.Mean(a, nil), stat.Mean(b, nil)
	va, vb := stat.Variance(a, nil), stat.Variance(b, nil)

	se := math.Sqrt(va/na + vb/nb)
	t = (ma - mb) / se
	dof = (va/na + vb/nb) * (va/na + vb/nb) /
		((va/na)*(va/na)/(na-1) + (vb/nb)*(vb/nb)/(nb-1))

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}
	switch alternative {
	case "two-sided":
		pval = 2 * (1 - tdist.CDF(math.Abs(t)))
	case "greater":
		pval = 1 - tdist.CDF(t)
	case "less":
		pval = tdist.CDF(t)
	default:
		return 0, 0, 0, 0, apperrors.UnknownOption("alternative", alternative,
			[]string{"two-sided", "greater", "less"})
	}

	pooled := math.Sqrt(((na-1)*va + (nb-1)*vb) / (na + nb - 2))
	es = (ma - mb) / pooled
	if effsize == "hedges" {
		es *= 1 - 3/(4*(na+nb)-9)
	}
	return t, dof, pval, es, nil
}

// rankWithTies assigns average ranks (1-based) and returns the
// Kruskal-Wallis tie correction factor.
func rankWithTies(x []float64) (ranks []float64, correction float64) {
	n := len(x)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return x[order[i]] < x[order[j]] })

	ranks = make([]float64, n)
	var tieSum float64
	for i := 0; i < n; {
		j := i
		for j < n && x[order[j]] == x[order[i]] {
			j++
		}
		avg := float64(i+j+1) / 2 // mean of ranks i+1..j
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		ties := float64(j - i)
		tieSum += ties*ties*ties - ties
		i = j
	}
	fn := float64(n)
	correction = 1 - tieSum/(fn*fn*fn-fn)
	return ranks, correction
}

func median(x []float64) float64 {
	s := append([]float64(nil), x...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
