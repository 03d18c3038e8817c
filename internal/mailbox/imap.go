package mailbox

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// Message is one inbound report message with its saved attachments.
type Message struct {
	ID          string
	Subject     string
	Attachments []string
}

// Client fetches spreadsheet attachments from an IMAP mailbox.
type Client struct {
	server      string
	user        string
	password    string
	sender      string
	downloadDir string
}

func New(server, user, password, sender, downloadDir string) *Client {
	return &Client{
		server:      server,
		user:        user,
		password:    password,
		sender:      sender,
		downloadDir: downloadDir,
	}
}

// FetchToday downloads spreadsheet attachments from today's messages
// sent by the configured sender, skipping message ids already in seen.
// Returns the fetched messages and the newly seen ids.
func (c *Client) FetchToday(seen map[string]struct{}) ([]Message, []string, error) {
	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	slog.Info("Connecting to mailbox", "server", c.server, "user", c.user, "processed", len(seen))
	cl, err := client.DialTLS(c.server, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial IMAP server: %w", err)
	}
	defer cl.Logout()

	if err := cl.Login(c.user, c.password); err != nil {
		return nil, nil, fmt.Errorf("IMAP login failed: %w", err)
	}
	if _, err := cl.Select("INBOX", true); err != nil {
		return nil, nil, fmt.Errorf("failed to select inbox: %w", err)
	}

	now := time.Now()
	criteria := imap.NewSearchCriteria()
	criteria.Header.Add("From", c.sender)
	criteria.Since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	ids, err := cl.Search(criteria)
	if err != nil {
		return nil, nil, fmt.Errorf("IMAP search failed: %w", err)
	}
	if len(ids) == 0 {
		slog.Info("No messages from sender today", "sender", c.sender)
		return nil, nil, nil
	}
	slog.Info("Found messages from sender today", "count", len(ids))

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- cl.Fetch(seqset, items, messages)
	}()

	var fetched []Message
	var newIDs []string
	for msg := range messages {
		msgID := ""
		if msg.Envelope != nil {
			msgID = msg.Envelope.MessageId
		}
		if msgID == "" {
			msgID = fmt.Sprintf("seq-%d", msg.SeqNum)
		}
		if _, ok := seen[msgID]; ok {
			slog.Info("Skipping already processed message", "id", msgID)
			continue
		}

		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		files, err := c.saveAttachments(body)
		if err != nil {
			slog.Warn("Failed to read message attachments", "id", msgID, "error", err)
			continue
		}
		if len(files) == 0 {
			continue
		}

		subject := ""
		if msg.Envelope != nil {
			subject = msg.Envelope.Subject
		}
		fetched = append(fetched, Message{ID: msgID, Subject: subject, Attachments: files})
		newIDs = append(newIDs, msgID)
	}

	if err := <-done; err != nil {
		return fetched, newIDs, fmt.Errorf("IMAP fetch failed: %w", err)
	}
	slog.Info("Fetched messages with attachments", "count", len(fetched))
	return fetched, newIDs, nil
}

// saveAttachments walks the MIME parts and saves spreadsheet
// attachments under the download dir.
func (c *Client) saveAttachments(r io.Reader) ([]string, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, err
	}

	var files []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return files, err
		}

		header, ok := part.Header.(*mail.AttachmentHeader)
		if !ok {
			continue
		}
		filename, err := header.Filename()
		if err != nil || filename == "" {
			continue
		}
		if !hasSpreadsheetExt(filename) {
			continue
		}

		path := filepath.Join(c.downloadDir, safeFilename(filename))
		f, err := os.Create(path)
		if err != nil {
			return files, err
		}
		if _, err := io.Copy(f, part.Body); err != nil {
			f.Close()
			return files, err
		}
		if err := f.Close(); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

func hasSpreadsheetExt(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".xlsx") ||
		strings.HasSuffix(lower, ".xls") ||
		strings.HasSuffix(lower, ".csv")
}

func safeFilename(name string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}
