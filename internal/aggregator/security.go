package aggregator

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// SecurityProtocol selects how outgoing fetches are authenticated. The set
// is closed; parsing an unknown name is a configuration error.
type SecurityProtocol string

const (
	ProtocolNone    SecurityProtocol = "none"
	ProtocolBasic   SecurityProtocol = "basic"
	ProtocolOAuth2  SecurityProtocol = "oauth2"
	ProtocolForward SecurityProtocol = "forward"
)

// ParseSecurityProtocol maps a configured protocol name onto the closed
// enumeration.
func ParseSecurityProtocol(name string) (SecurityProtocol, error) {
	switch SecurityProtocol(strings.ToLower(name)) {
	case ProtocolNone:
		return ProtocolNone, nil
	case ProtocolBasic:
		return ProtocolBasic, nil
	case ProtocolOAuth2:
		return ProtocolOAuth2, nil
	case ProtocolForward:
		return ProtocolForward, nil
	default:
		return "", fmt.Errorf("unknown security protocol %q", name)
	}
}

// Strategy attaches credentials to an outgoing request. Implementations
// mutate the request headers and have no other side effects.
type Strategy interface {
	Apply(req *http.Request, run *Run) error
}

// BasicCredentials configures the basic strategy.
type BasicCredentials struct {
	Username string
	Password string
}

// StrategyTable maps each protocol tag onto its strategy implementation.
// The table is built once at configuration time; request-time dispatch is a
// plain map lookup.
type StrategyTable map[SecurityProtocol]Strategy

// NewStrategyTable builds the strategy table. The oauth2 entry is only
// present when a client-credentials config is supplied.
func NewStrategyTable(basic BasicCredentials, oauth *clientcredentials.Config) StrategyTable {
	table := StrategyTable{
		ProtocolNone:    noneStrategy{},
		ProtocolBasic:   basicStrategy{credentials: basic},
		ProtocolForward: forwardStrategy{},
	}
	if oauth != nil {
		// The token source caches and refreshes tokens; it is safe for
		// concurrent use across branches.
		table[ProtocolOAuth2] = &oauth2Strategy{source: oauth.TokenSource(context.Background())}
	}
	return table
}

// Strategy resolves the strategy for a protocol tag. A missing entry is a
// configuration error and must stop startup, never a request.
func (t StrategyTable) Strategy(protocol SecurityProtocol) (Strategy, error) {
	s, ok := t[protocol]
	if !ok {
		return nil, fmt.Errorf("no security strategy configured for protocol %q", protocol)
	}
	return s, nil
}

type noneStrategy struct{}

func (noneStrategy) Apply(req *http.Request, run *Run) error { return nil }

type basicStrategy struct {
	credentials BasicCredentials
}

func (s basicStrategy) Apply(req *http.Request, run *Run) error {
	req.SetBasicAuth(s.credentials.Username, s.credentials.Password)
	return nil
}

// forwardStrategy propagates the caller's own Authorization header, carried
// explicitly on the run, into the outgoing request.
type forwardStrategy struct{}

func (forwardStrategy) Apply(req *http.Request, run *Run) error {
	if run == nil || run.Authorization == "" {
		return nil
	}
	req.Header.Set("Authorization", run.Authorization)
	return nil
}

type oauth2Strategy struct {
	source oauth2.TokenSource
}

func (s *oauth2Strategy) Apply(req *http.Request, run *Run) error {
	token, err := s.source.Token()
	if err != nil {
		return fmt.Errorf("obtaining oauth2 token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}
