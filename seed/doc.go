// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package seed provides the initial issue and poll collections.

# Loading

Load returns the embedded seed.yaml, or a file on disk when a path is given:

	data, err := seed.Load(cfg.SeedPath)
	if err != nil {
		log.Fatal(err)
	}

# Validation

Seed data is rejected when:

  - an issue or poll id is empty or duplicated
  - an issue status is not submitted, in-progress, or resolved
  - option ids repeat within a poll
  - a poll's total_votes differs from the sum of its option votes

# Format

	issues:
	  - id: "1"
	    title: Potholes on Main St.
	    category: Infrastructure
	    status: in-progress
	    date: "2023-10-25"
	    location: {lat: 40, lng: 20}
	    upvotes: 45
	polls:
	  - id: p1
	    question: Should we allocate budget for a new community park?
	    total_votes: 1240
	    options:
	      - {id: o1, text: "Yes, absolutely", votes: 850}
*/
package seed
