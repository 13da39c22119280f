// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package manifesto drafts campaign manifestos from a candidate's key points.

# Generators

A Generator turns a name, a position and free-form key points into
manifesto prose:

	gen, err := manifesto.NewGeminiGenerator(ctx, apiKey, "")

An empty model selects DefaultModel (gemini-2.5-flash). The request is a
single prompt built by Prompt; the reply is trimmed, and an empty reply
becomes EmptyResponseText.

When no API key is configured, main uses Unavailable, a Generator that always
fails with ErrNotConfigured.

# Fallback

Generation is a single attempt with no retry. Failures never reach the
caller:

	res := manifesto.WithFallback(ctx, gen, name, position, keyPoints)
	if res.FellBack {
		// res.Text is FallbackText
	}

The underlying error is logged as an ExternalServiceError.

# Drafter

A Drafter wraps a Generator for the HTTP layer:

	d := manifesto.NewDrafter(gen)
	res, err := d.Draft(ctx, sessionToken, voter.Name, position, keyPoints)

Draft returns a ValidationError for empty key points or an unknown position,
and ErrGenerationPending while another draft with the same key is still
running. Drafts with different keys run concurrently. Pending reports
whether a key is busy.

A nil Generator passed to NewDrafter behaves like Unavailable.
*/
package manifesto
