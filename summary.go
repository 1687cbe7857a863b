package memgrid

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Measure is one aggregated value of a summary
type Measure struct {
	Column string `json:"column" yaml:"column"`
	Func   string `json:"func" yaml:"func"` // COUNT, SUM, AVG, MIN, MAX
	Label  string `json:"label,omitempty" yaml:"label"`
}

// Name is the label under which the measure is reported
func (m Measure) Name() string {
	if m.Label != "" {
		return m.Label
	}
	if strings.EqualFold(m.Func, "COUNT") && m.Column == "" {
		return "count"
	}
	return fmt.Sprintf("%s(%s)", strings.ToLower(m.Func), m.Column)
}

// Group is one bucket of a summary
type Group struct {
	Key    string             `json:"key"`
	Count  int                `json:"count"`
	Values map[string]float64 `json:"values"`
}

// Summary holds grouped aggregates over a record set
type Summary struct {
	GroupBy  string             `json:"group_by"`
	Measures []string           `json:"measures"`
	Groups   []Group            `json:"groups"`
	Total    map[string]float64 `json:"total"`
	Count    int                `json:"count"`
}

const nullGroup = "(null)"

// Summarize groups records by the groupBy field and aggregates measures per
// group. Groups are ordered by key.
func Summarize(records []Record, groupBy string, measures []Measure) *Summary {
	if len(measures) == 0 {
		measures = []Measure{{Func: "COUNT"}}
	}
	names := make([]string, len(measures))
	for i, m := range measures {
		names[i] = m.Name()
	}

	buckets := make(map[string][]Record)
	var keys []string
	for _, rec := range records {
		key := nullGroup
		if v, ok := rec[groupBy]; ok && v != nil {
			key = strings.TrimSpace(Stringify(v))
		}
		if _, seen := buckets[key]; !seen {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], rec)
	}
	sort.Strings(keys)

	s := &Summary{
		GroupBy:  groupBy,
		Measures: names,
		Groups:   make([]Group, 0, len(keys)),
		Total:    make(map[string]float64, len(measures)),
		Count:    len(records),
	}
	for _, key := range keys {
		recs := buckets[key]
		g := Group{Key: key, Count: len(recs), Values: make(map[string]float64, len(measures))}
		for i, m := range measures {
			g.Values[names[i]] = aggregate(recs, m)
		}
		s.Groups = append(s.Groups, g)
	}
	for i, m := range measures {
		s.Total[names[i]] = aggregate(records, m)
	}
	return s
}

// Summary aggregates the filtered set of the engine.
func (e *Engine) Summary(groupBy string, measures []Measure) *Summary {
	return Summarize(e.sorted, groupBy, measures)
}

func aggregate(records []Record, m Measure) float64 {
	fn := strings.ToUpper(m.Func)
	if fn == "COUNT" {
		if m.Column == "" {
			return float64(len(records))
		}
		n := 0
		for _, rec := range records {
			if rec[m.Column] != nil {
				n++
			}
		}
		return float64(n)
	}

	var sum, lo, hi float64
	n := 0
	for _, rec := range records {
		v, ok := numeric(rec[m.Column])
		if !ok {
			continue
		}
		if n == 0 || v < lo {
			lo = v
		}
		if n == 0 || v > hi {
			hi = v
		}
		sum += v
		n++
	}

	switch fn {
	case "AVG":
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	case "MIN":
		return lo
	case "MAX":
		return hi
	default:
		return sum
	}
}

// numeric reports the finite float value of a number or of a string that
// holds nothing but a number.
func numeric(v interface{}) (float64, bool) {
	k, f := classify(v)
	if k != kindNumber {
		s, ok := v.(string)
		if !ok {
			return 0, false
		}
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
