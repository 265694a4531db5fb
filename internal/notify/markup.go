package notify

import "strings"

// Markup renders the three text styles the composer uses for one chat dialect.
type Markup interface {
	Text(s string) string
	Code(s string) string
	Spoiler(s string) string
}

// DiscordMarkup emits Discord markdown; plain text passes through unchanged.
type DiscordMarkup struct{}

func (DiscordMarkup) Text(s string) string    { return s }
func (DiscordMarkup) Code(s string) string    { return "`" + s + "`" }
func (DiscordMarkup) Spoiler(s string) string { return "||" + s + "||" }

// TelegramMarkup emits Telegram MarkdownV2.
type TelegramMarkup struct{}

func (TelegramMarkup) Text(s string) string    { return escapeMarkdownV2(s) }
func (TelegramMarkup) Code(s string) string    { return "`" + escapeCode(s) + "`" }
func (TelegramMarkup) Spoiler(s string) string { return "||" + escapeMarkdownV2(s) + "||" }

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4) // pre-allocate with room for escapes
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}

// escapeCode escapes the two characters MarkdownV2 reserves inside code spans.
func escapeCode(text string) string {
	return strings.NewReplacer("\\", "\\\\", "`", "\\`").Replace(text)
}
