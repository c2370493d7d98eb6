// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PoojithGuntaka/CivicConnect/models"
)

//go:embed seed.yaml
var defaultSeed []byte

// Data holds the initial issue and poll collections.
type Data struct {
	Issues []models.Issue `yaml:"issues"`
	Polls  []models.Poll  `yaml:"polls"`
}

// Load reads seed data from path, or the embedded default when path is empty.
// The result is validated before it is returned.
func Load(path string) (*Data, error) {
	raw := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes and validates YAML seed data.
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate checks id uniqueness, issue statuses, and that every poll's total
// equals the sum of its option votes.
func (d *Data) Validate() error {
	issueIDs := make(map[string]bool, len(d.Issues))
	for _, issue := range d.Issues {
		if issue.ID == "" {
			return errors.New("seed issue without id")
		}
		if issueIDs[issue.ID] {
			return fmt.Errorf("duplicate seed issue id %q", issue.ID)
		}
		issueIDs[issue.ID] = true

		switch issue.Status {
		case models.StatusSubmitted, models.StatusInProgress, models.StatusResolved:
		default:
			return fmt.Errorf("seed issue %q has invalid status %q", issue.ID, issue.Status)
		}
	}

	pollIDs := make(map[string]bool, len(d.Polls))
	for _, poll := range d.Polls {
		if poll.ID == "" {
			return errors.New("seed poll without id")
		}
		if pollIDs[poll.ID] {
			return fmt.Errorf("duplicate seed poll id %q", poll.ID)
		}
		pollIDs[poll.ID] = true

		optionIDs := make(map[string]bool, len(poll.Options))
		sum := 0
		for _, opt := range poll.Options {
			if optionIDs[opt.ID] {
				return fmt.Errorf("poll %q has duplicate option id %q", poll.ID, opt.ID)
			}
			optionIDs[opt.ID] = true
			sum += opt.Votes
		}
		if sum != poll.TotalVotes {
			return fmt.Errorf("poll %q total_votes %d does not match option sum %d", poll.ID, poll.TotalVotes, sum)
		}
	}

	return nil
}
