package serio

// Collector is an invertible accumulator: insert/retract must satisfy
// retract∘insert = id on any state, and Value must reflect current
// contents in O(1) or O(log n), per spec §4.3.
type Collector interface {
	Insert(item any)
	Retract(item any)
	Value() any
}

// CountCollector counts items.
type CountCollector struct{ n int }

func NewCountCollector() *CountCollector         { return &CountCollector{} }
func (c *CountCollector) Insert(item any)        { c.n++ }
func (c *CountCollector) Retract(item any)       { c.n-- }
func (c *CountCollector) Value() any             { return c.n }

// SumCollector sums items mapped through toInt64.
type SumCollector struct {
	toInt64 func(any) int64
	sum     int64
}

func NewSumCollector(toInt64 func(any) int64) *SumCollector {
	return &SumCollector{toInt64: toInt64}
}
func (c *SumCollector) Insert(item any)  { c.sum += c.toInt64(item) }
func (c *SumCollector) Retract(item any) { c.sum -= c.toInt64(item) }
func (c *SumCollector) Value() any       { return c.sum }

// MinMaxCollector tracks min and max via a sorted multiset of values, so
// retracting the current extreme never rescans the group: a binary search
// locates the value and Value is O(1).
type MinMaxCollector struct {
	toInt64 func(any) int64
	counts  map[int64]int
	sorted  []int64 // ascending, de-duplicated
	max     bool
}

func newMinMaxCollector(toInt64 func(any) int64, max bool) *MinMaxCollector {
	return &MinMaxCollector{toInt64: toInt64, counts: make(map[int64]int), max: max}
}

// NewMinCollector tracks the minimum value currently in the group.
func NewMinCollector(toInt64 func(any) int64) *MinMaxCollector { return newMinMaxCollector(toInt64, false) }

// NewMaxCollector tracks the maximum value currently in the group.
func NewMaxCollector(toInt64 func(any) int64) *MinMaxCollector { return newMinMaxCollector(toInt64, true) }

func (c *MinMaxCollector) Insert(item any) {
	v := c.toInt64(item)
	if c.counts[v] == 0 {
		c.insertSorted(v)
	}
	c.counts[v]++
}

func (c *MinMaxCollector) Retract(item any) {
	v := c.toInt64(item)
	c.counts[v]--
	if c.counts[v] <= 0 {
		delete(c.counts, v)
		c.removeSorted(v)
	}
}

func (c *MinMaxCollector) Value() any {
	if len(c.sorted) == 0 {
		return int64(0)
	}
	if c.max {
		return c.sorted[len(c.sorted)-1]
	}
	return c.sorted[0]
}

func (c *MinMaxCollector) insertSorted(v int64) {
	lo, hi := 0, len(c.sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		if c.sorted[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	c.sorted = append(c.sorted, 0)
	copy(c.sorted[lo+1:], c.sorted[lo:])
	c.sorted[lo] = v
}

func (c *MinMaxCollector) removeSorted(v int64) {
	lo, hi := 0, len(c.sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		if c.sorted[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(c.sorted) && c.sorted[lo] == v {
		c.sorted = append(c.sorted[:lo], c.sorted[lo+1:]...)
	}
}

// AverageCollector tracks sum and count so Value is O(1).
type AverageCollector struct {
	toFloat64 func(any) float64
	sum       float64
	count     int
}

func NewAverageCollector(toFloat64 func(any) float64) *AverageCollector {
	return &AverageCollector{toFloat64: toFloat64}
}

func (c *AverageCollector) Insert(item any) {
	c.sum += c.toFloat64(item)
	c.count++
}

func (c *AverageCollector) Retract(item any) {
	c.sum -= c.toFloat64(item)
	c.count--
}

func (c *AverageCollector) Value() any {
	if c.count == 0 {
		return 0.0
	}
	return c.sum / float64(c.count)
}

// LoadBalanceCollector drives even distribution across the buckets that
// currently hold at least one item by penalizing variance-like unevenness,
// the "load-balance" collector from spec §4.3. Insert and Retract are O(1);
// Value recomputes the sum of squared deviations from the mean load over
// every bucket, O(number of buckets).
type LoadBalanceCollector struct {
	bucketOf func(any) any
	loads    map[any]int64
	sumLoad  int64
	nBuckets int
}

// NewLoadBalanceCollector groups items by bucketOf and tracks imbalance.
func NewLoadBalanceCollector(bucketOf func(any) any) *LoadBalanceCollector {
	return &LoadBalanceCollector{bucketOf: bucketOf, loads: make(map[any]int64)}
}

func (c *LoadBalanceCollector) Insert(item any) {
	b := c.bucketOf(item)
	if c.loads[b] == 0 {
		c.nBuckets++
	}
	c.loads[b]++
	c.sumLoad++
}

func (c *LoadBalanceCollector) Retract(item any) {
	b := c.bucketOf(item)
	c.loads[b]--
	c.sumLoad--
	if c.loads[b] <= 0 {
		delete(c.loads, b)
		c.nBuckets--
	}
}

// Value returns the sum of squared deviations from the mean bucket load,
// as an int64 (scaled by nBuckets^2 to stay integer: sum((load*n -
// sumLoad))^2), a standard trick to avoid floating point in a score level.
func (c *LoadBalanceCollector) Value() any {
	if c.nBuckets == 0 {
		return int64(0)
	}
	var total int64
	n := int64(c.nBuckets)
	for _, load := range c.loads {
		d := load*n - c.sumLoad
		total += d * d
	}
	return total
}

// DistinctCollector tracks the set of unique values currently present,
// invertible via refcounting each value. Added in SPEC_FULL.md §4.3 to
// support "has any of these distinct skills"-shaped constraints.
type DistinctCollector struct {
	refs map[any]int
}

func NewDistinctCollector() *DistinctCollector { return &DistinctCollector{refs: make(map[any]int)} }

func (c *DistinctCollector) Insert(item any)  { c.refs[item]++ }
func (c *DistinctCollector) Retract(item any) { c.refs[item]--; if c.refs[item] <= 0 { delete(c.refs, item) } }
func (c *DistinctCollector) Value() any {
	out := make([]any, 0, len(c.refs))
	for v := range c.refs {
		out = append(out, v)
	}
	return out
}
