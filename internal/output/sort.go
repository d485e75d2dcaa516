// Copyright © 2025 Cheng Jingfeng
// SPDX-License-Identifier: MIT

package output

import (
	"sort"
	"strings"
)

// SortDataset sorts the result set in place per the provided spec. The spec is
// a comma separated list of output keys. A leading - sorts that key descending
// and a leading ! makes the string comparison case sensitive. An empty spec
// leaves the dataset in its original order.
func SortDataset(dataset []map[string]interface{}, spec string) {
	if spec == "" {
		return
	}

	keys := strings.Split(spec, ",")

	sort.SliceStable(dataset, func(i, j int) bool {
		for _, key := range keys {
			key = strings.TrimSpace(key)

			descending := strings.HasPrefix(key, "-")
			key = strings.TrimPrefix(key, "-")

			caseSensitive := strings.HasPrefix(key, "!")
			key = strings.TrimPrefix(key, "!")

			if key == "" {
				continue
			}

			cmp := compareValues(dataset[i][key], dataset[j][key], caseSensitive)
			if cmp == 0 {
				continue
			}

			if descending {
				return cmp > 0
			}
			return cmp < 0
		}

		return false
	})
}

// compareValues returns -1, 0 or 1. Numbers compare numerically and everything
// else compares as a string. The gjson pipeline hands us float64 for all JSON
// numbers, so that's the only numeric type checked.
func compareValues(a, b interface{}, caseSensitive bool) int {
	if af, aok := a.(float64); aok {
		if bf, bok := b.(float64); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	as := InterfaceToString(a)
	bs := InterfaceToString(b)

	if !caseSensitive {
		as = strings.ToLower(as)
		bs = strings.ToLower(bs)
	}

	return strings.Compare(as, bs)
}
