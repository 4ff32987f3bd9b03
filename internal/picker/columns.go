package picker

import (
	"fmt"
	"strconv"
	"strings"
)

// Column is one dimension of the popup.
type Column string

const (
	ColumnHour   Column = "hour"
	ColumnMinute Column = "minute"
	ColumnPeriod Column = "period"
)

var AllColumns = []Column{ColumnHour, ColumnMinute, ColumnPeriod}

func ParseColumn(s string) (Column, bool) {
	switch Column(strings.ToLower(strings.TrimSpace(s))) {
	case ColumnHour:
		return ColumnHour, true
	case ColumnMinute:
		return ColumnMinute, true
	case ColumnPeriod:
		return ColumnPeriod, true
	}
	return "", false
}

// Choice is one offered value in a column.
type Choice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
	Selected bool   `json:"selected"`
}

// Columns holds the offered values of all three columns with their availability at
// the selection they were computed for.
type Columns struct {
	Hours   []Choice `json:"hours"`
	Minutes []Choice `json:"minutes"`
	Periods []Choice `json:"periods"`
}

func (c Columns) Get(col Column) []Choice {
	switch col {
	case ColumnHour:
		return c.Hours
	case ColumnMinute:
		return c.Minutes
	case ColumnPeriod:
		return c.Periods
	}
	return nil
}

// Disabled counts disabled choices across all columns.
func (c Columns) Disabled() int {
	n := 0
	for _, col := range [][]Choice{c.Hours, c.Minutes, c.Periods} {
		for _, ch := range col {
			if ch.Disabled {
				n++
			}
		}
	}
	return n
}

// OfferedHours is 1..12.
func OfferedHours() []int {
	out := make([]int, 0, 12)
	for h := 1; h <= 12; h++ {
		out = append(out, h)
	}
	return out
}

// OfferedMinutes steps from 0 by interval while below 60.
func OfferedMinutes(interval int) []int {
	if interval <= 0 {
		interval = 1
	}
	out := make([]int, 0, 60/interval+1)
	for m := 0; m < 60; m += interval {
		out = append(out, m)
	}
	return out
}

func hourLabel(h int, pad bool) string {
	if pad {
		return fmt.Sprintf("%02d", h)
	}
	return strconv.Itoa(h)
}

func minuteLabel(m int) string {
	return fmt.Sprintf("%02d", m)
}
