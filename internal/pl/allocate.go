package pl

import (
	"fmt"

	"github.com/meridian-games/fecpl/internal/refdata"
)

// bucketSpec ties an aggregate bucket code to its allocation basis kind
// and business-unit target codes.
type bucketSpec struct {
	bucketCode string
	splitKind  string
	buCodes    map[string]string
}

var revenueCOGSBuckets = []bucketSpec{
	{bucketCode: CodeRevenueBucket, splitKind: "Revenue", buCodes: RevenueBUCodes},
	{bucketCode: CodeCOGSBucket, splitKind: "COGS", buCodes: COGSBUCodes},
}

// AllocateRevenueCOGS replaces the revenue and COGS aggregate buckets with
// per-business-unit lines, apportioned by the entity's allocation basis.
//
// The sum of generated lines equals the bucket total by construction: each
// share is amount/basisTotal of the same whole. A bucket with no usable
// basis is dropped with a warning rather than failing the run; the missing
// contribution surfaces in the quality report.
func AllocateRevenueCOGS(rows []MappedRow, splits []refdata.BUSplitRow, entity string) ([]MappedRow, []string) {
	var warnings []string

	for _, spec := range revenueCOGSBuckets {
		totalFEC := sumByCode(rows, spec.bucketCode)
		if totalFEC == 0 {
			rows = dropCode(rows, spec.bucketCode)
			continue
		}

		basis := splitsFor(splits, entity, spec.splitKind)
		if len(basis) == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: no %s allocation basis, dropping %s %.2f", entity, spec.splitKind, spec.bucketCode, totalFEC))
			rows = dropCode(rows, spec.bucketCode)
			continue
		}
		var basisTotal float64
		for _, s := range basis {
			basisTotal += s.Amount
		}
		if basisTotal == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: %s allocation basis sums to zero, dropping %s %.2f", entity, spec.splitKind, spec.bucketCode, totalFEC))
			rows = dropCode(rows, spec.bucketCode)
			continue
		}

		rows = dropCode(rows, spec.bucketCode)
		for _, s := range basis {
			code, known := spec.buCodes[s.BusinessUnit]
			if !known {
				warnings = append(warnings, fmt.Sprintf("%s: unknown %s business unit %q skipped", entity, spec.splitKind, s.BusinessUnit))
				continue
			}
			rows = append(rows, MappedRow{
				Code:   code,
				Amount: totalFEC * (s.Amount / basisTotal),
			})
		}
	}
	return rows, warnings
}

func splitsFor(splits []refdata.BUSplitRow, entity, kind string) []refdata.BUSplitRow {
	var out []refdata.BUSplitRow
	for _, s := range splits {
		if s.Entity == entity && s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
