package command

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/botvault/botvault/internal/events"
	"github.com/botvault/botvault/internal/repository"
)

// Command is an account-management operation name. The wire values are
// fixed: existing callers have been sending these strings for years, the
// legacy rm* cleanups included.
type Command string

const (
	CmdAddAccount          Command = "addacc"
	CmdRemoveAccount       Command = "rmacc"
	CmdUpdateAccount       Command = "updt"
	CmdUpdateAPIKey        Command = "updtapikey"
	CmdRemoveLegacySecret  Command = "rmbvscrt"
	CmdRemoveLegacyKeys    Command = "rmbvkeys"
	CmdRemoveLegacyDefault Command = "rmdefpub"
	CmdRemoveLegacyBlob    Command = "rmoldbvacc"
	CmdFetch               Command = "fetch"
)

// ErrUnknownCommand is returned for any method outside the command set. The
// HTTP layer turns it into the legacy `false` body; nothing in the store is
// touched.
var ErrUnknownCommand = errors.New("unknown account command")

// ParseCommand validates a wire method string against the command set.
func ParseCommand(method string) (Command, error) {
	switch c := Command(method); c {
	case CmdAddAccount, CmdRemoveAccount, CmdUpdateAccount, CmdUpdateAPIKey,
		CmdRemoveLegacySecret, CmdRemoveLegacyKeys, CmdRemoveLegacyDefault,
		CmdRemoveLegacyBlob, CmdFetch:
		return c, nil
	default:
		return "", ErrUnknownCommand
	}
}

// Request is one account-management call.
type Request struct {
	Method string
	Params map[string]string
}

// Response carries the status payload of an executed command.
type Response struct {
	Status any `json:"status"`
}

// EventPublisher is the slice of events.Publisher the service needs;
// injected so tests run without Redis.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// AccountCommandService executes account commands against the credential
// store and announces mutations on the credential event stream.
type AccountCommandService struct {
	accounts  *repository.AccountStore
	publisher EventPublisher
}

func NewAccountCommandService(accounts *repository.AccountStore, publisher EventPublisher) *AccountCommandService {
	return &AccountCommandService{accounts: accounts, publisher: publisher}
}

// Process dispatches a request to the matching store operation. Store-level
// failures of the happy kind (deleting an absent key, removing an unknown
// credential) surface as a false status, never as an error.
func (s *AccountCommandService) Process(ctx context.Context, req Request) (*Response, error) {
	cmd, err := ParseCommand(req.Method)
	if err != nil {
		return nil, err
	}

	switch cmd {
	case CmdAddAccount:
		return s.addAccount(ctx, req.Params)
	case CmdRemoveAccount:
		return s.removeAccount(ctx, req.Params)
	case CmdUpdateAccount:
		return s.updateAccount(ctx, req.Params)
	case CmdUpdateAPIKey:
		return s.updateAPIKey(ctx, req.Params)
	case CmdRemoveLegacySecret:
		return s.deleteOption(ctx, repository.LegacySecretKeyKey)
	case CmdRemoveLegacyKeys:
		return s.deleteOption(ctx, repository.LegacyKeysKey)
	case CmdRemoveLegacyDefault:
		return s.deleteOption(ctx, repository.LegacyDefaultPubKey)
	case CmdRemoveLegacyBlob:
		return s.deleteOption(ctx, repository.LegacyAccountsBlobKey)
	case CmdFetch:
		return s.fetch(ctx)
	}
	return nil, ErrUnknownCommand
}

func (s *AccountCommandService) addAccount(ctx context.Context, params map[string]string) (*Response, error) {
	public := params["public"]
	secret := params["secret"]
	if err := s.accounts.AddAccount(ctx, public, secret); err != nil {
		return nil, fmt.Errorf("failed to add account: %w", err)
	}
	exists, err := s.accounts.Exists(ctx, public)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.CredentialAdded, events.CredentialAddedEvent{PublicKey: public})
	return &Response{Status: exists}, nil
}

func (s *AccountCommandService) removeAccount(ctx context.Context, params map[string]string) (*Response, error) {
	public := params["public"]
	removed, err := s.accounts.Remove(ctx, public)
	if err != nil {
		return nil, fmt.Errorf("failed to remove account: %w", err)
	}
	if removed {
		s.publish(ctx, events.CredentialRemoved, events.CredentialRemovedEvent{PublicKey: public})
	}
	return &Response{Status: removed}, nil
}

func (s *AccountCommandService) updateAccount(ctx context.Context, params map[string]string) (*Response, error) {
	pubkey := params["pubkey"]
	fields := make(map[string]string, len(params))
	for name, value := range params {
		if name == "pubkey" {
			continue
		}
		fields[name] = value
	}
	if err := s.accounts.UpdateAccount(ctx, pubkey, fields); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	exists, err := s.accounts.Exists(ctx, pubkey)
	if err != nil {
		return nil, err
	}
	if exists {
		s.publish(ctx, events.CredentialUpdated, events.CredentialUpdatedEvent{PublicKey: pubkey})
	}
	return &Response{Status: exists}, nil
}

func (s *AccountCommandService) updateAPIKey(ctx context.Context, params map[string]string) (*Response, error) {
	pubkey := params["pubkey"]
	if err := s.accounts.UpdateAPIPublicKey(ctx, pubkey); err != nil {
		return nil, fmt.Errorf("failed to update api public key: %w", err)
	}
	current, err := s.accounts.APIPublicKey(ctx)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.DefaultKeyChanged, events.DefaultKeyChangedEvent{PublicKey: pubkey})
	return &Response{Status: current}, nil
}

func (s *AccountCommandService) deleteOption(ctx context.Context, key string) (*Response, error) {
	removed, err := s.accounts.DeleteOption(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to delete option %s: %w", key, err)
	}
	return &Response{Status: removed}, nil
}

func (s *AccountCommandService) fetch(ctx context.Context) (*Response, error) {
	all, err := s.accounts.AllAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return &Response{Status: all}, nil
}

// publish is best-effort: a mutation that already hit the store is not
// rolled back because peers could not be notified.
func (s *AccountCommandService) publish(ctx context.Context, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.CredentialEventsStream, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
