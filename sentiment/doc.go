// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sentiment turns a batch of issues into a structured SentimentReport.

# Analysis

	a := sentiment.New(client)
	report := a.Analyze(ctx, issues)

Issues are rendered as one delimited block followed by the analysis
instruction, and the model is asked for JSON matching ReportSchema. A reply is
accepted only when all four fields are present, the sentiment is positive,
neutral or negative, and the score lies in [0,100]. Anything else returns
Fallback(). Report.Source tells the two apart: "live" or "fallback".

# Caching

	loader := sentiment.NewLoader(a, cache, logger, m)
	report, cached := loader.Load(ctx, issues)

Cache has two implementations: MemoryCache and RedisCache (key
DefaultCacheKey, optional TTL). Concurrent loads share one analysis. Fallback
reports are never cached.
*/
package sentiment
