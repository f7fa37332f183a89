package store

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"sync"

	"modernc.org/sqlite"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFunctions installs the REGEXP predicate for every connection of the driver.
func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = sqlite.RegisterDeterministicScalarFunction("regexp", 2, regexpFunc)
	})
	return registerErr
}

// regexpFunc implements "name REGEXP pattern", which SQLite calls as regexp(pattern, name).
func regexpFunc(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	pattern, ok := textArg(args[0])
	if !ok {
		return int64(0), nil
	}
	input, ok := textArg(args[1])
	if !ok {
		return int64(0), nil
	}

	re, err := patterns.get(pattern)
	if err != nil {
		return nil, err
	}
	if re.MatchString(input) {
		return int64(1), nil
	}
	return int64(0), nil
}

func textArg(v driver.Value) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

// compileSearchPattern compiles a user pattern with case-insensitive matching.
func compileSearchPattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}

const patternCacheSize = 64

type patternCache struct {
	mu sync.Mutex
	m  map[string]*regexp.Regexp
}

var patterns = &patternCache{m: make(map[string]*regexp.Regexp)}

func (c *patternCache) get(pattern string) (*regexp.Regexp, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.m[pattern]; ok {
		return re, nil
	}
	re, err := compileSearchPattern(pattern)
	if err != nil {
		return nil, err
	}
	if len(c.m) >= patternCacheSize {
		clear(c.m)
	}
	c.m[pattern] = re
	return re, nil
}
