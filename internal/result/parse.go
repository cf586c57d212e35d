package result

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const columns = 8

// Parse reads the artifact at path with the default filter.
func Parse(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parse(f, path, DefaultFilter())
}

// ParseReader reads an artifact from r. name is only used in errors.
func ParseReader(r io.Reader, name string) (*Result, error) {
	return parse(r, name, DefaultFilter())
}

// ParseWith reads an artifact from r using a custom filter.
func ParseWith(r io.Reader, name string, filter Filter) (*Result, error) {
	return parse(r, name, filter)
}

func parse(r io.Reader, name string, filter Filter) (*Result, error) {
	res := &Result{}
	sc := bufio.NewScanner(r)
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != columns {
			return nil, &MalformedResultError{
				Path:   name,
				Line:   lineNo,
				Reason: fmt.Sprintf("expected %d columns, got %d", columns, len(fields)),
			}
		}

		var nums [7]float64
		for i := range nums {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, &MalformedResultError{
					Path:   name,
					Line:   lineNo,
					Reason: fmt.Sprintf("column %d: %v", i+1, err),
				}
			}
			nums[i] = v
		}

		pos := Vec3{nums[0], nums[1], nums[2]}
		mom := Vec3{nums[3], nums[4], nums[5]}
		res.append(pos, mom, nums[6], unquote(fields[7]), filter)
	}
	if err := sc.Err(); err != nil {
		return nil, &MalformedResultError{Path: name, Line: lineNo, Reason: err.Error()}
	}

	if res.Len() == 0 {
		return nil, &MalformedResultError{Path: name, Reason: "no rows"}
	}

	return res, nil
}

// unquote accepts species tags written with or without quotes.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
