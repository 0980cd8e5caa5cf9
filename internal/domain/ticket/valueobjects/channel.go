package valueobjects

import "strings"

// Channel is the origin of a ticket or comment.
type Channel string

const (
	ChannelVoice   Channel = "voice"
	ChannelEmail   Channel = "email"
	ChannelWeb     Channel = "web"
	ChannelChat    Channel = "chat"
	ChannelAPI     Channel = "api"
	ChannelSocial  Channel = "social"
	ChannelUnknown Channel = "unknown"

	// system-originated channels
	ChannelSystem Channel = "system"
	ChannelRule   Channel = "rule"
	ChannelMerge  Channel = "merge"
)

var validChannels = map[Channel]bool{
	ChannelVoice:   true,
	ChannelEmail:   true,
	ChannelWeb:     true,
	ChannelChat:    true,
	ChannelAPI:     true,
	ChannelSocial:  true,
	ChannelUnknown: true,
	ChannelSystem:  true,
	ChannelRule:    true,
	ChannelMerge:   true,
}

// channelAliases maps support-desk "via.channel" spellings onto Channel.
var channelAliases = map[string]Channel{
	"phone":             ChannelVoice,
	"voice":             ChannelVoice,
	"email":             ChannelEmail,
	"mail":              ChannelEmail,
	"web":               ChannelWeb,
	"web_form":          ChannelWeb,
	"web_widget":        ChannelWeb,
	"chat":              ChannelChat,
	"native_messaging":  ChannelChat,
	"api":               ChannelAPI,
	"mobile_sdk":        ChannelAPI,
	"social":            ChannelSocial,
	"twitter":           ChannelSocial,
	"facebook":          ChannelSocial,
	"line":              ChannelSocial,
	"system":            ChannelSystem,
	"rule":              ChannelRule,
	"automation":        ChannelRule,
	"merge":             ChannelMerge,
	"closed_ticket":     ChannelSystem,
	"side_conversation": ChannelSystem,
}

func (c Channel) String() string {
	return string(c)
}

func (c Channel) IsValid() bool {
	return validChannels[c]
}

// IsSystem reports whether content on this channel was produced by the platform rather than a person.
func (c Channel) IsSystem() bool {
	return c == ChannelSystem || c == ChannelRule || c == ChannelMerge
}

// ParseChannel maps a raw channel name; unrecognized names become ChannelUnknown.
func ParseChannel(raw string) Channel {
	if ch, ok := channelAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return ch
	}
	return ChannelUnknown
}
