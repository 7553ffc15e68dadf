package service

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	chatTopicDefault = "default"

	defaultChatReply = "Thanks for your message! Isaac typically responds within a few hours. For immediate assistance, you can schedule a consultation or download our resources."
)

type chatReply struct {
	keyword string
	text    string
}

// Later entries win when a message matches more than one keyword.
var chatReplies = []chatReply{
	{
		keyword: "ai implementation",
		text:    "AI implementation typically involves assessment, pilot projects, and gradual rollout. Isaac specializes in banking AI, voice agents, and risk management systems. Would you like to schedule a discovery call?",
	},
	{
		keyword: "pricing",
		text:    "Isaac offers various consultation packages starting with a free 30-minute discovery call. For detailed pricing on implementation projects, I'd recommend scheduling a technical consultation.",
	},
	{
		keyword: "consultation",
		text:    "Great! Isaac offers three types of consultations: Discovery Call (Free, 30 min), Technical Deep Dive (£300, 60 min), and Strategy Session (£500, 90 min). Which interests you?",
	},
	{
		keyword: "schedule",
		text:    "I can help you schedule a meeting with Isaac. What type of consultation would you prefer?",
	},
	{
		keyword: "resources",
		text:    "We have excellent resources including AI Banking Transformation Guide, Voice Agents Playbook, and Risk Management Framework. Would you like me to share the download links?",
	},
}

// ReplyTo picks the canned reply for a chat message and the keyword that
// selected it.
func ReplyTo(message string) (reply, topic string) {
	folded := cases.Fold().String(message)
	reply, topic = defaultChatReply, chatTopicDefault
	for _, r := range chatReplies {
		if strings.Contains(folded, r.keyword) {
			reply, topic = r.text, r.keyword
		}
	}
	return reply, topic
}
