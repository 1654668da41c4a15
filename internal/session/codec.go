package session

import (
	"encoding/json"
	"errors"
	"fmt"

	authdomain "github.com/AlibekovAA/profile-editor/internal/auth/domain"
	"github.com/AlibekovAA/profile-editor/internal/common/constants"
)

var ErrUnsupportedVersion = errors.New("unsupported session schema version")

// State is what survives a restart.
type State struct {
	User            *authdomain.User
	IsAuthenticated bool
	Token           string
}

type persistedState struct {
	User            *authdomain.UserRecord `json:"user"`
	IsAuthenticated bool                   `json:"isAuthenticated"`
	Token           string                 `json:"token,omitempty"`
}

type persistedEnvelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

func Encode(s State) ([]byte, error) {
	ps := persistedState{
		IsAuthenticated: s.IsAuthenticated,
		Token:           s.Token,
	}
	if s.User != nil {
		rec := s.User.ToRecord()
		ps.User = &rec
	}

	state, err := json.Marshal(ps)
	if err != nil {
		return nil, err
	}
	return json.Marshal(persistedEnvelope{
		Version: constants.SessionSchemaVersion,
		State:   state,
	})
}

// Decode rejects payloads written with any other schema version.
func Decode(data []byte) (State, error) {
	var env persistedEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return State{}, fmt.Errorf("decode session envelope: %w", err)
	}
	if env.Version != constants.SessionSchemaVersion {
		return State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}

	var ps persistedState
	if len(env.State) > 0 {
		if err := json.Unmarshal(env.State, &ps); err != nil {
			return State{}, fmt.Errorf("decode session state: %w", err)
		}
	}

	s := State{
		IsAuthenticated: ps.IsAuthenticated,
		Token:           ps.Token,
	}
	if ps.User != nil {
		u, err := authdomain.UserFromRecord(*ps.User)
		if err != nil {
			return State{}, fmt.Errorf("decode session user: %w", err)
		}
		s.User = &u
	}
	return s, nil
}
