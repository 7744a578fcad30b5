package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/wneessen/go-mail"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/fmuoria/interview-organizer/internal/config"
)

// DefaultGmailTokenPath is used when settings leave the token path empty.
const DefaultGmailTokenPath = "token.json"

// GmailTransport sends through the Gmail API using a stored OAuth token
type GmailTransport struct{}

// Deliver implements Transport
func (GmailTransport) Deliver(ctx context.Context, s config.Settings, msg *mail.Msg) error {
	oauthCfg, err := gmailOAuthConfig(s.GmailCredentialsPath)
	if err != nil {
		return &Error{Kind: KindNotConfigured, Err: err}
	}

	tok, err := tokenFromFile(gmailTokenPath(s))
	if err != nil {
		return &Error{Kind: KindAuthFailed, Hint: "Run the gmail-auth command to authorize sending.", Err: err}
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, tok)))
	if err != nil {
		return fmt.Errorf("unable to create Gmail client: %w", err)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return fmt.Errorf("unable to encode message: %w", err)
	}

	raw := &gmail.Message{Raw: base64.URLEncoding.EncodeToString(buf.Bytes())}
	if _, err := srv.Users.Messages.Send("me", raw).Context(ctx).Do(); err != nil {
		if isGmailAuthError(err) {
			return &Error{Kind: KindAuthFailed, Hint: "Re-run the gmail-auth command; the stored token was rejected.", Err: err}
		}
		return fmt.Errorf("unable to send message: %w", err)
	}
	return nil
}

func isGmailAuthError(err error) bool {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return true
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return ge.Code == http.StatusUnauthorized || ge.Code == http.StatusForbidden
	}
	return false
}

func gmailTokenPath(s config.Settings) string {
	if s.GmailTokenPath != "" {
		return s.GmailTokenPath
	}
	return DefaultGmailTokenPath
}

// gmailOAuthConfig reads the OAuth client credentials for the send scope
func gmailOAuthConfig(credentialsPath string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}
	return cfg, nil
}

// AuthorizeGmail runs the console OAuth flow and stores the token for later
// sends. The authorization code is read from in.
func AuthorizeGmail(ctx context.Context, s config.Settings, in io.Reader, out io.Writer) error {
	oauthCfg, err := gmailOAuthConfig(s.GmailCredentialsPath)
	if err != nil {
		return err
	}

	authURL := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Go to the following link in your browser then type the authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Fscan(in, &authCode); err != nil {
		return fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := oauthCfg.Exchange(ctx, strings.TrimSpace(authCode))
	if err != nil {
		return fmt.Errorf("unable to retrieve token from web: %w", err)
	}

	path := gmailTokenPath(s)
	fmt.Fprintf(out, "Saving credential file to: %s\n", path)
	return saveToken(path, tok)
}

// tokenFromFile retrieves a token from a local file
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// saveToken saves a token to a file path
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
