package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// discordSession is the part of *discordgo.Session the sender needs.
type discordSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSender posts to one channel through the Discord REST API, mentioning a role.
type DiscordSender struct {
	session   discordSession
	channelID string
	groupID   string
}

// NewDiscordSender creates a bot session. No gateway connection is opened.
func NewDiscordSender(botToken, channelID, groupID string) (*DiscordSender, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &DiscordSender{session: session, channelID: channelID, groupID: groupID}, nil
}

func (d *DiscordSender) Send(ctx context.Context, text string) error {
	content := text
	if d.groupID != "" {
		content = fmt.Sprintf("<@&%s>\n\n%s", d.groupID, text)
	}
	if _, err := d.session.ChannelMessageSend(d.channelID, content, discordgo.WithContext(ctx)); err != nil {
		return &DeliveryError{Channel: d.Name(), Err: err}
	}
	return nil
}

func (d *DiscordSender) Name() string { return "discord" }
