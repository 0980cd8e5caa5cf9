package ticket

import (
	"fmt"
	"time"

	vo "github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket/valueobjects"
)

// Comment is one immutable entry of a ticket timeline: a message, an internal note or a system event.
type Comment struct {
	id        string
	authorID  string
	body      string
	htmlBody  string
	public    *bool
	channel   vo.Channel
	createdAt time.Time
}

// NewComment builds a comment as delivered by the ticket gateway.
// public is tri-state: nil means the source did not say, which is treated as public.
func NewComment(
	id string,
	authorID string,
	body string,
	htmlBody string,
	public *bool,
	channel vo.Channel,
	createdAt time.Time,
) (*Comment, error) {
	if id == "" {
		return nil, fmt.Errorf("comment ID is required")
	}
	if channel == "" {
		channel = vo.ChannelUnknown
	}
	if !channel.IsValid() {
		return nil, fmt.Errorf("invalid comment channel: %s", channel)
	}

	var visibility *bool
	if public != nil {
		v := *public
		visibility = &v
	}

	return &Comment{
		id:        id,
		authorID:  authorID,
		body:      body,
		htmlBody:  htmlBody,
		public:    visibility,
		channel:   channel,
		createdAt: createdAt.UTC(),
	}, nil
}

func (c *Comment) ID() string {
	return c.id
}

func (c *Comment) AuthorID() string {
	return c.authorID
}

func (c *Comment) Body() string {
	return c.body
}

func (c *Comment) HTMLBody() string {
	return c.htmlBody
}

// Content returns the markup-bearing body when present, the plain body otherwise.
func (c *Comment) Content() string {
	if c.htmlBody != "" {
		return c.htmlBody
	}
	return c.body
}

// Public returns the raw tri-state visibility flag.
func (c *Comment) Public() *bool {
	if c.public == nil {
		return nil
	}
	v := *c.public
	return &v
}

// IsPrivate is true only when the source explicitly marked the comment internal.
func (c *Comment) IsPrivate() bool {
	return c.public != nil && !*c.public
}

func (c *Comment) Channel() vo.Channel {
	return c.channel
}

func (c *Comment) CreatedAt() time.Time {
	return c.createdAt
}

// Bool returns a pointer to b, for building tri-state visibility flags.
func Bool(b bool) *bool {
	return &b
}
