package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/jackpotoracle/internal/models"
)

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "Hello World"},
		{"Hello_World", "Hello\\_World"},
		{"Test*bold*", "Test\\*bold\\*"},
		{"Price: $100.50", "Price: $100\\.50"},
		{"[link](url)", "\\[link\\]\\(url\\)"},
		{"~strikethrough~", "\\~strikethrough\\~"},
		{"`code`", "\\`code\\`"},
		{">blockquote", "\\>blockquote"},
		{"#header", "\\#header"},
		{"+plus-minus", "\\+plus\\-minus"},
		{"=equal|pipe", "\\=equal\\|pipe"},
		{"{brace}", "\\{brace\\}"},
		{"end!", "end\\!"},
		{"", ""},
		{"_*[]()~`>#+-=|{}.!", "\\_\\*\\[\\]\\(\\)\\~\\`\\>\\#\\+\\-\\=\\|\\{\\}\\.\\!"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := escapeMarkdownV2(tt.input)
			if result != tt.expected {
				t.Errorf("escapeMarkdownV2(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{850, "8.50"},
		{-300, "-3.00"},
		{-50, "-0.50"},
		{123456, "1,234.56"},
		{1200000000, "12,000,000.00"},
		{-98765432, "-987,654.32"},
	}
	for _, tt := range tests {
		if got := FormatCents(tt.cents); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func testReport() DrawReport {
	return DrawReport{
		Draw: models.DrawRecord{
			ID:        "1",
			BrandName: "TI-EJACKPOT",
			CloseTime: time.Date(2024, 3, 12, 18, 0, 0, 0, time.UTC).UnixMilli(),
			PrizeTiers: []models.PrizeTier{
				{Name: "5+2 oikein", ShareAmount: 1200000000},
				{Name: "2+1 oikein", ShareAmount: 850},
			},
		},
		Result: models.Reconciliation{
			Hits:        models.Hits{Primary: 2, Secondary: 1},
			MoneyWon:    850,
			LedgerAfter: 1150,
		},
	}
}

func TestComposer_DiscordBlock(t *testing.T) {
	c := NewComposer(DiscordMarkup{}, time.UTC)
	jackpot := int64(12000000000)

	got := c.Compose([]DrawReport{testReport()}, &jackpot)
	want := "W11/TI 2+1 oikein, voittoa `8.50`€, sijoituksen tuotto ||11.50||€\n\n" +
		"Isoin voitto tuloksella 5+2 oikein `12,000,000.00`€\n" +
		"Seuraava päävoitto `120,000,000.00`€"
	if got != want {
		t.Errorf("Compose() =\n%s\nwant\n%s", got, want)
	}
}

func TestComposer_MultipleDrawsAndMissingJackpot(t *testing.T) {
	c := NewComposer(DiscordMarkup{}, time.UTC)
	second := testReport()
	second.Draw.BrandName = "PE-EJACKPOT"
	second.Draw.PrizeTiers = nil

	got := c.Compose([]DrawReport{testReport(), second}, nil)
	blocks := strings.Split(got, "\n--\n")
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2:\n%s", len(blocks), got)
	}
	if !strings.HasPrefix(blocks[1], "W11/PE ") {
		t.Errorf("second block header wrong: %q", blocks[1])
	}
	if strings.Contains(blocks[1], "Isoin voitto") {
		t.Error("draw without tiers should omit the biggest prize line")
	}
	for _, b := range blocks {
		if !strings.HasSuffix(b, "Seuraava päävoitto ei saatavilla") {
			t.Errorf("missing jackpot placeholder in %q", b)
		}
	}
}

func TestComposer_NoResults(t *testing.T) {
	if got := NewComposer(DiscordMarkup{}, nil).Compose(nil, nil); got != NoResultsText {
		t.Errorf("got %q, want %q", got, NoResultsText)
	}
	if got := NewComposer(TelegramMarkup{}, nil).NoResults(); got != "Tuloksia ei saatu Veikkaukselta :\\(" {
		t.Errorf("telegram no-results not escaped: %q", got)
	}
}

func TestComposer_TelegramEscaping(t *testing.T) {
	r := testReport()
	r.Result.LedgerAfter = -300
	got := NewComposer(TelegramMarkup{}, time.UTC).Compose([]DrawReport{r}, nil)

	if !strings.Contains(got, "2\\+1 oikein") {
		t.Errorf("label not escaped: %q", got)
	}
	if !strings.Contains(got, "`8.50`") {
		t.Errorf("code span should not escape dots: %q", got)
	}
	if !strings.Contains(got, "||\\-3\\.00||") {
		t.Errorf("spoiler content not escaped: %q", got)
	}
}

type fakeDiscord struct {
	channelID string
	content   string
	err       error
}

func (f *fakeDiscord) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channelID = channelID
	f.content = content
	return &discordgo.Message{}, f.err
}

func TestDiscordSender(t *testing.T) {
	fake := &fakeDiscord{}
	s := &DiscordSender{session: fake, channelID: "123", groupID: "456"}

	if err := s.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if fake.channelID != "123" {
		t.Errorf("channel = %q", fake.channelID)
	}
	if fake.content != "<@&456>\n\nhello" {
		t.Errorf("content = %q", fake.content)
	}
}

func TestDiscordSender_Failure(t *testing.T) {
	s := &DiscordSender{session: &fakeDiscord{err: errors.New("403 Forbidden")}, channelID: "1"}
	err := s.Send(context.Background(), "hello")
	var derr *DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("expected *DeliveryError, got %v", err)
	}
	if derr.Channel != "discord" {
		t.Errorf("channel = %q", derr.Channel)
	}
}

type fakeTelegram struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestTelegramSender(t *testing.T) {
	fake := &fakeTelegram{}
	s := &TelegramSender{bot: fake, chatID: 42, mention: "lotto_crew"}

	if err := s.Send(context.Background(), "body"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fake.sent))
	}
	msg := fake.sent[0]
	if msg.ChatID != 42 || msg.ParseMode != tgbotapi.ModeMarkdownV2 {
		t.Errorf("unexpected message config: %+v", msg)
	}
	if msg.Text != "@lotto\\_crew\n\nbody" {
		t.Errorf("text = %q", msg.Text)
	}
}

func TestNewTelegramSender_InvalidChatID(t *testing.T) {
	if _, err := NewTelegramSender("", "not-a-number", ""); err == nil {
		t.Error("Expected error for invalid chat ID, got nil")
	}
}

func TestWriterSender(t *testing.T) {
	var buf bytes.Buffer
	if err := (WriterSender{W: &buf}).Send(context.Background(), "dry run"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if buf.String() != "dry run\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestComposer_Failure(t *testing.T) {
	got := NewComposer(TelegramMarkup{}, nil).Failure(errors.New("ledger read `x` failed"))
	want := "⚠️ Tulosten tarkistus epäonnistui: `ledger read \\`x\\` failed`"
	if got != want {
		t.Errorf("Failure() = %q, want %q", got, want)
	}
}
