// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package live pushes tally updates to websocket subscribers.

# Hub

A Hub owns the set of subscribers. Run must be active before any
subscriber connects, and stops when its context is cancelled:

	hub := live.NewHub()
	go hub.Run(ctx)

# Subscribing

Serve upgrades an HTTP request and keeps the connection subscribed:

	hub.Serve(w, r, election.Results(list))

The results passed to Serve are sent as the first frame, before any
broadcast. Incoming frames are discarded; the read side only handles pongs
and closes.

# Publishing

After a vote or nomination the handlers broadcast the new tallies:

	hub.PublishResults(election.Results(list))

PublishResults never blocks. When the broadcast queue is full the frame is
dropped; the next publish carries the complete tallies anyway.

# Wire Format

Every frame is a JSON Message:

	{"type": "results", "results": [...]}

where results holds one entry per position with its tally.

# Backpressure

Each subscriber has a small send buffer. A subscriber that falls behind is
disconnected rather than slowing the broadcast. The server pings every 54
seconds and drops connections silent for 60.

The evote_live_subscribers gauge tracks connected subscribers.
*/
package live
