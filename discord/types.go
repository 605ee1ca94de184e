package discord

import (
	"encoding/json"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// Interaction types.
const (
	InteractionPing               = 1
	InteractionApplicationCommand = 2
	InteractionMessageComponent   = 3
)

// Interaction is the subset of the Discord interaction payload the bot
// reads. Signature verification has already happened by the time one of
// these is decoded.
type Interaction struct {
	ID      string          `json:"id"`
	Type    int             `json:"type"`
	Token   string          `json:"token"`
	Context int             `json:"context"`
	Data    InteractionData `json:"data"`
	Member  *Member         `json:"member,omitempty"`
	User    *User           `json:"user,omitempty"`
	Message *Message        `json:"message,omitempty"`
}

type InteractionData struct {
	Name     string   `json:"name"`
	CustomID string   `json:"custom_id"`
	Options  []Option `json:"options"`
}

// Option is a command option value. Discord sends integer options as JSON
// numbers and user options as id strings, so the raw value is kept and
// decoded on demand.
type Option struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// Int decodes an integer option. Values arriving as quoted numbers are
// accepted too.
func (o Option) Int() (int, error) {
	var n int
	if err := json.Unmarshal(o.Value, &n); err == nil {
		return n, nil
	}
	s, err := o.String()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

func (o Option) String() (string, error) {
	var s string
	if err := json.Unmarshal(o.Value, &s); err != nil {
		return "", err
	}
	return s, nil
}

type Member struct {
	User *User `json:"user"`
}

type User struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
}

// DisplayName prefers the global name when the user has set one.
func (u User) DisplayName() string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

type Message struct {
	ID string `json:"id"`
}

// Invoker resolves the acting user: member.user in guild context (0), the
// top-level user otherwise.
func (i Interaction) Invoker() User {
	if i.Context == 0 && i.Member != nil && i.Member.User != nil {
		return *i.Member.User
	}
	if i.User != nil {
		return *i.User
	}
	return User{}
}

// ValidUserID reports whether s parses as a Discord snowflake id.
func ValidUserID(s string) bool {
	_, err := snowflake.ParseString(s)
	return err == nil && s != ""
}
