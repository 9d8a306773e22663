package mailbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
)

// Fetcher retrieves the newest verification code received at or after since,
// or "" when no matching message exists yet.
type Fetcher interface {
	FetchCode(ctx context.Context, since time.Time) (string, error)
}

// imapFetcher reads codes from an IMAP mailbox. A connection is dialed and
// torn down on every call so a stuck session never blocks later attempts.
// Messages are fetched with peek and are never flagged or deleted.
type imapFetcher struct {
	cfg config.Mailbox
	log zerolog.Logger
}

func NewIMAPFetcher(cfg config.Mailbox) Fetcher {
	return &imapFetcher{
		cfg: cfg,
		log: log.With().Str("component", "mailbox").Logger(),
	}
}

func (f *imapFetcher) FetchCode(_ context.Context, since time.Time) (string, error) {
	addr := fmt.Sprintf("%s:%d", f.cfg.Host, f.cfg.Port)
	c, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return "", fmt.Errorf("error connecting to mailbox %s: %w", addr, err)
	}
	defer func() {
		if err := c.Logout().Wait(); err != nil {
			f.log.Debug().Err(err).Msg("error logging out of mailbox")
			_ = c.Close()
		}
	}()

	if err := c.Login(f.cfg.Username, f.cfg.Password).Wait(); err != nil {
		return "", fmt.Errorf("error logging into mailbox: %w", err)
	}

	if _, err := c.Select(f.cfg.Folder, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return "", fmt.Errorf("error selecting %s: %w", f.cfg.Folder, err)
	}

	criteria := &imap.SearchCriteria{
		Since:   since,
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
	data, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return "", fmt.Errorf("error searching mailbox: %w", err)
	}

	uids := data.AllUIDs()
	if len(uids) == 0 {
		return "", nil
	}
	// Most recent match only; older unseen messages may carry stale codes.
	uid := uids[len(uids)-1]

	section := &imap.FetchItemBodySection{Peek: true}
	msgs, err := c.Fetch(imap.UIDSetNum(uid), &imap.FetchOptions{
		BodySection: []*imap.FetchItemBodySection{section},
	}).Collect()
	if err != nil {
		return "", fmt.Errorf("error fetching message %d: %w", uid, err)
	}
	if len(msgs) == 0 {
		return "", nil
	}

	raw := msgs[0].FindBodySection(section)
	if len(raw) == 0 {
		return "", nil
	}

	return codeFromMessage(raw)
}

// codeFromMessage walks the MIME parts of a raw message, preferring a code
// found in HTML paragraph text and falling back to the plain-text body.
func codeFromMessage(raw []byte) (string, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("error parsing message: %w", err)
	}

	var plain string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("error reading message part: %w", err)
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mediaType, _, err := header.ContentType()
		if err != nil {
			continue
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return "", fmt.Errorf("error reading message body: %w", err)
		}

		switch mediaType {
		case "text/html":
			if code := CodeFromHTML(string(body)); code != "" {
				return code, nil
			}
		case "text/plain":
			if plain == "" {
				plain = string(body)
			}
		}
	}

	if plain != "" {
		return CodeFromText(plain), nil
	}
	return "", nil
}
