package tui

// AgentStream is the stop-control capability exposed by the chat/agent
// runtime. The workspace view never owns or inspects the stream; it only
// holds this narrow interface so the stop key can cancel an in-flight
// agent turn. A nil AgentStream disables the binding.
type AgentStream interface {
	// Cancel requests cancellation of the current agent stream. It must be
	// safe to call when no stream is active.
	Cancel()
}

// ConversationAppender is the capability the conversation sidebar exposes
// to collaborators that need to add an entry without owning the sidebar's
// state. The workspace view itself does not consume it; it is threaded
// through the view options so embedding consoles can hand the capability
// to whichever component spawns follow-up conversations.
type ConversationAppender interface {
	AddConversation(title string)
}
