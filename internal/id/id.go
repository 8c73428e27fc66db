// Package id formats and parses journal entry numbers.
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// EntryPrefix marks journal entry numbers.
const EntryPrefix = "JE"

// MonthPrefix returns the number prefix shared by all entries of a month: "JE-2025-01-".
func MonthPrefix(year, month int) string {
	return fmt.Sprintf("%s-%04d-%02d-", EntryPrefix, year, month)
}

// FormatEntryNumber returns an entry number like "JE-2025-01-0001".
func FormatEntryNumber(year, month, seq int) string {
	return fmt.Sprintf("%s%04d", MonthPrefix(year, month), seq)
}

// ParseEntryNumber parses "JE-2025-01-0001" into year, month, seq.
func ParseEntryNumber(number string) (year, month, seq int, err error) {
	parts := strings.Split(number, "-")
	if len(parts) != 4 || parts[0] != EntryPrefix {
		return 0, 0, 0, fmt.Errorf("invalid entry number format: %q", number)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in entry number %q: %w", number, err)
	}

	month, err = strconv.Atoi(parts[2])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month in entry number %q", number)
	}

	seq, err = strconv.Atoi(parts[3])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in entry number %q: %w", number, err)
	}

	return year, month, seq, nil
}

// NextSeq returns one past the highest sequence among numbers. Numbers that
// do not parse are ignored.
func NextSeq(numbers []string) int {
	maxSeq := 0
	for _, n := range numbers {
		_, _, seq, err := ParseEntryNumber(n)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}
