package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the value type a configuration key accepts.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindDuration
	KindString
)

var kindNames = [...]string{"bool", "int", "duration", "string"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// KeySpec describes one settable key.
type KeySpec struct {
	Kind    Kind
	Default any
	Help    string
}

// KnownKeys maps every dotted configuration key to its KeySpec. GetDefaults
// produces exactly these keys.
var KnownKeys = map[string]KeySpec{
	"devlog_file":                {Kind: KindString, Default: "DEVLOG.md", Help: "Development log file, relative to the repository root"},
	"changelog_file":             {Kind: KindString, Default: "CHANGELOG.md", Help: "Changelog file, relative to the repository root"},
	"max_commits_in_devlog":      {Kind: KindInt, Default: 50, Help: "Commits read when regenerating the devlog"},
	"auto_stage_devlog":          {Kind: KindBool, Default: true, Help: "Stage the devlog after the post-commit hook rewrites it"},
	"skip_confirmations":         {Kind: KindBool, Default: false, Help: "Answer yes to scan and migrate prompts"},
	"aggregate.commits_per_repo": {Kind: KindInt, Default: 20, Help: "Recent commits read from each tracked repository"},
	"aggregate.max_entries":      {Kind: KindInt, Default: 100, Help: "Entries kept in the combined log"},
	"aggregate.output_file":      {Kind: KindString, Default: "", Help: "Combined log path, ~/.gitjournal/COMBINED_DEVLOG.md when empty"},
	"scan.max_depth":             {Kind: KindInt, Default: 3, Help: "Directory levels searched below the scan root"},
	"export.open_browser":        {Kind: KindBool, Default: true, Help: "Open the exported page in a browser"},
	"watch.debounce":             {Kind: KindDuration, Default: "500ms", Help: "Quiet period before the watcher regenerates"},
}

// ErrUnknownKey reports a key that is not in KnownKeys.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// LookupKey returns the KeySpec registered for key.
func LookupKey(key string) (KeySpec, error) {
	ks, ok := KnownKeys[key]
	if !ok {
		return KeySpec{}, ErrUnknownKey{Key: key}
	}
	return ks, nil
}

// ValidateValue converts the command-line text raw into the Go value stored
// under key. Durations are normalized through time.Duration.String.
func ValidateValue(key, raw string) (any, error) {
	ks, err := LookupKey(key)
	if err != nil {
		return nil, err
	}
	return ks.Kind.parse(raw)
}

func (k Kind) parse(raw string) (any, error) {
	switch k {
	case KindString:
		return raw, nil
	case KindBool:
		if strings.EqualFold(raw, "true") {
			return true, nil
		}
		if strings.EqualFold(raw, "false") {
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean: %q (expected true or false)", raw)
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer: %q", raw)
		}
		return n, nil
	case KindDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid duration: %q (try 500ms, 2s or 1m)", raw)
		}
		return d.String(), nil
	}
	return nil, fmt.Errorf("no parser for %s values", k)
}
