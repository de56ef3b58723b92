package order

import (
	"slices"
)

// Locator returns the stored coordinates of a user, or false when the user is
// unknown or has not been geocoded.
type Locator func(userID int64) (Point, bool)

// Evaluate runs q over an in-memory candidate set. It mirrors the SQL the
// Postgres repository emits: filter, annotate distance, order with NULL keys
// last and id as tie-breaker, then skip/limit. Callers must validate q first.
func Evaluate(candidates []*Order, locate Locator, q *Query) []Result {
	results := make([]Result, 0, len(candidates))
	for _, o := range candidates {
		if !q.Filter.Matches(o) {
			continue
		}

		r := Result{Order: o}
		if q.Reference != nil {
			r.HasDistance = true
			if locate != nil {
				if at, ok := locate(o.SeniorID); ok {
					d := Distance(*q.Reference, at)
					r.Distance = &d
				}
			}
		}
		results = append(results, r)
	}

	sort := q.EffectiveSort()
	spec := sortFields[sort.Field]
	slices.SortStableFunc(results, func(a, b Result) int {
		if c := compareWithNulls(spec, sort.Direction, &a, &b); c != 0 {
			return c
		}
		return compareOrdered(a.Order.ID, b.Order.ID)
	})

	return paginate(results, q.Page)
}

func compareWithNulls(spec fieldSpec, dir Direction, a, b *Result) int {
	aNull, bNull := spec.isNull(a), spec.isNull(b)
	switch {
	case aNull && bNull:
		return 0
	case aNull:
		return 1
	case bNull:
		return -1
	}

	c := spec.compare(a, b)
	if dir == Descending {
		return -c
	}
	return c
}

func paginate(results []Result, page Page) []Result {
	if page.Skip >= len(results) {
		return []Result{}
	}
	end := len(results)
	if page.Limit < end-page.Skip {
		end = page.Skip + page.Limit
	}
	return results[page.Skip:end]
}
