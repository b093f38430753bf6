// Package challenge serves the daily coding challenge from a YAML pack.
package challenge

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed challenges.yaml
var defaultPack embed.FS

// Challenge is a single dated entry in the pack.
type Challenge struct {
	Date        string `yaml:"date" json:"date"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// PackFile represents the YAML structure for a challenge pack
type PackFile struct {
	Challenges []Challenge `yaml:"challenges"`
}

// Service rotates through the pack by UTC date.
type Service struct {
	challenges []Challenge
	now        func() time.Time
}

// NewService loads the pack from path, or the embedded default pack when
// path is empty.
func NewService(path string) (*Service, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = defaultPack.ReadFile("challenges.yaml")
	}
	if err != nil {
		return nil, fmt.Errorf("read challenge pack: %w", err)
	}

	var pack PackFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse challenge pack: %w", err)
	}
	if len(pack.Challenges) == 0 {
		return nil, fmt.Errorf("challenge pack is empty")
	}

	challenges := make([]Challenge, len(pack.Challenges))
	copy(challenges, pack.Challenges)
	sort.SliceStable(challenges, func(i, j int) bool {
		return challenges[i].Date < challenges[j].Date
	})

	return &Service{
		challenges: challenges,
		now:        time.Now,
	}, nil
}

// Today returns the entry dated today (UTC), or the first entry in the
// pack when no entry matches.
func (s *Service) Today() Challenge {
	today := s.now().UTC().Format("2006-01-02")
	for _, c := range s.challenges {
		if c.Date == today {
			return c
		}
	}
	return s.challenges[0]
}
