// Package platform normalizes the free-form platform strings found in
// exported play records into a small set of canonical groups. The export
// format never standardized this field: the same device shows up as "ios",
// "iOS 16.1.1 (iPhone12,1)" or "iOS 10.3.3 (iPhone 6)" depending on client
// version, and partner devices carry vendor-specific prefixes.
//
// Patterns live in an embedded YAML database and are matched top to bottom;
// the first match wins.
package platform

import (
	"embed"
	"fmt"
	"sync"

	"go.elara.ws/pcre"
	"gopkg.in/yaml.v3"
)

// Unknown is returned when no pattern matches.
const Unknown = "Unknown"

//go:embed database/platforms.yml
var databaseFiles embed.FS

// PlatformEntry is one pattern in the database.
type PlatformEntry struct {
	Regex string `yaml:"regex"`
	Name  string `yaml:"name"`
}

// Compiled regex cache
type regexCache struct {
	compiled map[string]*pcre.Regexp
	mutex    sync.RWMutex
}

func newRegexCache() *regexCache {
	return &regexCache{
		compiled: make(map[string]*pcre.Regexp),
	}
}

func (rc *regexCache) get(pattern string) (*pcre.Regexp, error) {
	rc.mutex.RLock()
	if regex, exists := rc.compiled[pattern]; exists {
		rc.mutex.RUnlock()
		return regex, nil
	}
	rc.mutex.RUnlock()

	rc.mutex.Lock()
	defer rc.mutex.Unlock()

	// Double-check pattern
	if regex, exists := rc.compiled[pattern]; exists {
		return regex, nil
	}

	regex, err := pcre.Compile(pattern)
	if err != nil {
		return nil, err
	}
	rc.compiled[pattern] = regex
	return regex, nil
}

type normalizer struct {
	entries []PlatformEntry
	cache   *regexCache
}

var (
	instance *normalizer
	once     sync.Once
)

func getNormalizer() *normalizer {
	once.Do(func() {
		instance = &normalizer{cache: newRegexCache()}

		if data, err := databaseFiles.ReadFile("database/platforms.yml"); err == nil {
			if err := yaml.Unmarshal(data, &instance.entries); err != nil {
				fmt.Printf("Error parsing platforms.yml: %v\n", err)
			}
		}
	})
	return instance
}

// Normalize maps a raw platform string to its canonical group name.
func Normalize(raw string) string {
	if raw == "" {
		return Unknown
	}

	n := getNormalizer()
	for _, entry := range n.entries {
		regex, err := n.cache.get(entry.Regex)
		if err != nil {
			continue
		}
		if regex.MatchString(raw) {
			return entry.Name
		}
	}
	return Unknown
}
