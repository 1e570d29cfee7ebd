package contest

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// The -dir argument takes several shapes:
//
//	--dir logs/cqww2022                 one directory (--start/--hrs required)
//	--dir logs/a,logs/b                 several directories, same window
//	--dir @contests.txt                 a text file listing contests
//	--dir contests.toml                 a TOML manifest of contests
//
// An @-file line is either a single directory name (the global -start/-hrs
// apply) or "directory start hours". Blank lines and #-comments are skipped.

type manifest struct {
	Contests []manifestContest `toml:"contest"`
}

type manifestContest struct {
	Dir   string `toml:"dir"`
	Start string `toml:"start"`
	Hours int    `toml:"hours"`
}

// Resolve expands the raw -dir argument into the list of contests to
// process. startStr and hours are the global -start/-hrs values; hours == 0
// means "not given".
func Resolve(raw, startStr string, hours int) ([]Contest, error) {
	var contests []Contest
	var err error

	switch {
	case strings.HasPrefix(raw, "@"):
		contests, err = resolveListFile(raw[1:], startStr, hours)
	case strings.HasSuffix(raw, ".toml"):
		contests, err = resolveManifest(raw)
	default:
		contests, err = resolveDirs(raw, startStr, hours)
	}
	if err != nil {
		return nil, err
	}

	for _, c := range contests {
		if err := checkDirectory(c.Dir); err != nil {
			return nil, err
		}
	}
	return contests, nil
}

func resolveDirs(raw, startStr string, hours int) ([]Contest, error) {
	start, err := requireWindow(raw, startStr, hours)
	if err != nil {
		return nil, err
	}

	var contests []Contest
	for _, dir := range strings.Split(raw, ",") {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		contests = append(contests, Contest{Dir: dir, Start: start, Hours: hours})
	}
	if len(contests) == 0 {
		return nil, fmt.Errorf("no directories in -dir value %q", raw)
	}
	return contests, nil
}

func resolveListFile(filename, startStr string, hours int) ([]Contest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("contest list %s: %w", filename, err)
	}

	var contests []Contest
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch len(fields) {
		case 1:
			start, err := requireWindow(fields[0], startStr, hours)
			if err != nil {
				return nil, fmt.Errorf("contest list %s line %d: %w", filename, n+1, err)
			}
			contests = append(contests, Contest{Dir: fields[0], Start: start, Hours: hours})
		case 3:
			start, err := ParseStart(fields[1])
			if err != nil {
				return nil, fmt.Errorf("contest list %s line %d: %w", filename, n+1, err)
			}
			h, err := strconv.Atoi(fields[2])
			if err != nil || h <= 0 {
				return nil, fmt.Errorf("contest list %s line %d: invalid hours %q", filename, n+1, fields[2])
			}
			contests = append(contests, Contest{Dir: fields[0], Start: start, Hours: h})
		default:
			return nil, fmt.Errorf("contest list %s line %d: expected 1 or 3 fields, got %d", filename, n+1, len(fields))
		}
	}

	if len(contests) == 0 {
		return nil, fmt.Errorf("contest list %s: no contests", filename)
	}
	return contests, nil
}

func resolveManifest(filename string) ([]Contest, error) {
	var m manifest
	if _, err := toml.DecodeFile(filename, &m); err != nil {
		return nil, fmt.Errorf("contest manifest %s: %w", filename, err)
	}
	if len(m.Contests) == 0 {
		return nil, fmt.Errorf("contest manifest %s: no [[contest]] tables", filename)
	}

	var contests []Contest
	for i, mc := range m.Contests {
		if mc.Dir == "" {
			return nil, fmt.Errorf("contest manifest %s: [[contest]] #%d missing dir", filename, i+1)
		}
		start, err := ParseStart(mc.Start)
		if err != nil {
			return nil, fmt.Errorf("contest manifest %s: [[contest]] #%d: %w", filename, i+1, err)
		}
		if mc.Hours <= 0 {
			return nil, fmt.Errorf("contest manifest %s: [[contest]] #%d: invalid hours %d", filename, i+1, mc.Hours)
		}
		contests = append(contests, Contest{Dir: mc.Dir, Start: start, Hours: mc.Hours})
	}
	return contests, nil
}

func requireWindow(dir, startStr string, hours int) (time.Time, error) {
	if startStr == "" || hours <= 0 {
		return time.Time{}, fmt.Errorf("directory %s needs -start and -hrs", dir)
	}
	return ParseStart(startStr)
}

// checkDirectory verifies that dir exists and is a directory, following
// symlinks.
func checkDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("directory %s does not exist", dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
