// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the CivicConnect API server.

CivicConnect is a civic engagement service: citizens report local issues,
vote in community polls and ask an AI assistant about city services, while
officials see issue statistics and an AI sentiment report over all issues.
Both AI features degrade to fixed fallback answers when the model API is
unavailable.

# Commands

	civicconnect serve [flags]       Run the HTTP API
	civicconnect ask <question>      One-shot assistant answer
	civicconnect analyze             Sentiment report over the seed issues (JSON)
	civicconnect version

# Starting the Server

No setting is required. Without an API key every model call answers with
the fallback text:

	API_KEY=... go run . serve

Or with flags:

	go run . serve -p 3318 -provider gemini -model gemini-2.5-flash

# Configuration

Commonly set:

  - API_KEY (-api-key): Model API key (GEMINI_API_KEY is also read)
  - SESSION_SALT (-session-salt): Secret for session token HMAC
  - REDIS_URL (-redis): Keep the sentiment report in Redis
  - PORT (-p): Server port (default: 3318)

See package cliparse for the full list.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (issues, polls, chat, dashboard, auth)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, session gates
  - models: Domain, request and response types
  - store: In-memory issue and poll collections
  - seed: Initial collections (embedded YAML)
  - assistant: Chat integration and conversations
  - sentiment: Sentiment integration, report cache and loader
  - llm: Model client and providers (gemini, openai)
  - metrics: Prometheus collectors
  - auth: Demo sign-in and session tokens
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
