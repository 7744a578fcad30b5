package session

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSelection turns "3-7" or "1,4,9" (1-based, as shown in the candidate
// table) into 0-based indices below n. Indices keep input order and repeat
// entries are dropped.
func ParseSelection(input string, n int) ([]int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty selection")
	}

	var picks []int
	if strings.Contains(input, "-") {
		parts := strings.SplitN(input, "-", 2)
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid range start %q", parts[0])
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid range end %q", parts[1])
		}
		if start > end {
			return nil, fmt.Errorf("range %d-%d is reversed", start, end)
		}
		if start < 1 || end > n {
			return nil, fmt.Errorf("range %d-%d is outside 1-%d", start, end, n)
		}
		for i := start; i <= end; i++ {
			picks = append(picks, i)
		}
	} else {
		for _, p := range strings.Split(input, ",") {
			i, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", p)
			}
			picks = append(picks, i)
		}
	}

	seen := make(map[int]struct{}, len(picks))
	out := make([]int, 0, len(picks))
	for _, p := range picks {
		if p < 1 || p > n {
			return nil, fmt.Errorf("row %d is outside 1-%d", p, n)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p-1)
	}
	return out, nil
}

// SelectEmails resolves a selection against an ordered email list.
func SelectEmails(input string, emails []string) ([]string, error) {
	idx, err := ParseSelection(input, len(emails))
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, emails[i])
	}
	return out, nil
}
