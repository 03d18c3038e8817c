package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

type Config struct {
	IMAPServer   string
	IMAPUser     string
	IMAPPassword string
	SenderFilter string

	SessionID      string
	ComebackAPIURL string
	APIPageSize    int

	TelegramBotToken string
	TelegramChatID   string

	StateFilePath string
	DownloadDir   string
	Port          string
}

func Load() (*Config, error) {
	imapUser := os.Getenv("GMAIL_USER")
	imapPassword := os.Getenv("GMAIL_APP_PASSWORD")
	if imapUser == "" || imapPassword == "" {
		return nil, fmt.Errorf("GMAIL_USER and GMAIL_APP_PASSWORD environment variables are required but not set")
	}

	imapServer := os.Getenv("IMAP_SERVER")
	if imapServer == "" {
		imapServer = "imap.gmail.com:993"
	}

	senderFilter := os.Getenv("SENDER_FILTER")
	if senderFilter == "" {
		senderFilter = "no-reply@business.auto.ru"
	}

	sessionID := os.Getenv("VERTIS_SESSION_ID")
	if sessionID == "" {
		slog.Warn("VERTIS_SESSION_ID not set, comeback API source will be skipped")
	}

	apiURL := os.Getenv("COMEBACK_API_URL")
	if apiURL == "" {
		apiURL = "https://apiauto.ru/1.0/comeback"
	}

	pageSize := 50
	if v := os.Getenv("API_PAGE_SIZE"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid API_PAGE_SIZE %q: %w", v, err)
		}
		pageSize = parsed
	}

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if chatID == "" {
		slog.Warn("TELEGRAM_CHAT_ID not set, digests will be printed locally")
	} else if botToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required when TELEGRAM_CHAT_ID is set")
	}

	stateFile := os.Getenv("STATE_FILE")
	if stateFile == "" {
		stateFile = "processed_ids.json"
	}

	downloadDir := os.Getenv("DOWNLOAD_DIR")
	if downloadDir == "" {
		downloadDir = "downloads"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		slog.Info("Defaulting to port", "port", port)
	}

	return &Config{
		IMAPServer:       imapServer,
		IMAPUser:         imapUser,
		IMAPPassword:     imapPassword,
		SenderFilter:     senderFilter,
		SessionID:        sessionID,
		ComebackAPIURL:   apiURL,
		APIPageSize:      pageSize,
		TelegramBotToken: botToken,
		TelegramChatID:   chatID,
		StateFilePath:    stateFile,
		DownloadDir:      downloadDir,
		Port:             port,
	}, nil
}
