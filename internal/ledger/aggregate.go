package ledger

import (
	"sort"

	"finbuddy/internal/core"
)

// Series is a labelled aggregation: Values[i] is the total for Labels[i].
type Series struct {
	Labels []string
	Values []core.Money
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Labels) }

// Total sums every value.
func (s Series) Total() core.Money {
	var total core.Money
	for _, v := range s.Values {
		total = total.Add(v)
	}
	return total
}

// GroupByDate sums amounts per distinct date, labels ascending by date.
func GroupByDate(expenses []core.Expense) Series {
	sums := make(map[string]core.Money)
	labels := make([]string, 0)
	for _, e := range expenses {
		key := e.Date.String()
		if _, ok := sums[key]; !ok {
			labels = append(labels, key)
		}
		sums[key] = sums[key].Add(e.Amount)
	}
	// ISO dates sort chronologically as strings.
	sort.Strings(labels)
	return seriesFrom(labels, sums)
}

// GroupByCategory sums amounts per distinct category, labels in first-seen order.
func GroupByCategory(expenses []core.Expense) Series {
	sums := make(map[string]core.Money)
	labels := make([]string, 0)
	for _, e := range expenses {
		if _, ok := sums[e.Category]; !ok {
			labels = append(labels, e.Category)
		}
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}
	return seriesFrom(labels, sums)
}

func seriesFrom(labels []string, sums map[string]core.Money) Series {
	values := make([]core.Money, len(labels))
	for i, l := range labels {
		values[i] = sums[l]
	}
	return Series{Labels: labels, Values: values}
}
