// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package assistant answers citizen questions through the model client.

# Chat

	a := assistant.New(client, assistant.WithMetrics(m))
	text := a.Chat(ctx, "How do I report a pothole?", history)

The request carries a fixed civic-helper system instruction, one
"Context History: ..." turn built from at most HistoryLimit prior messages,
and the new message. Output is bounded to MaxOutputTokens.

Chat never returns an error. An empty model response yields FallbackEmpty;
any failure (transport, status, decode, missing configuration) yields
FallbackError. Nothing is retried.

# Conversations

	reg := assistant.NewRegistry(a, 0)
	conv := reg.Start()
	user, bot, err := conv.Send(ctx, "hello")

A conversation opens with Greeting and is append-only. Send rejects blank
text with ErrEmptyMessage and rejects a second message while one is still
being answered with ErrBusy. Fallback replies have IsError set.
*/
package assistant
