package discord

// Application command option types.
const (
	OptionInteger = 4
	OptionUser    = 6
)

// Command is an application-command schema for registration.
type Command struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Type             int             `json:"type"`
	Options          []CommandOption `json:"options,omitempty"`
	IntegrationTypes []int           `json:"integration_types"`
	Contexts         []int           `json:"contexts"`
}

type CommandOption struct {
	Type        int    `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// AllCommands returns the global slash-command set the bot registers.
func AllCommands() []Command {
	return []Command{
		{
			Name:        "hotdog",
			Description: "Add hot dogs",
			Type:        1,
			Options: []CommandOption{
				{Type: OptionInteger, Name: "amount", Description: "Number of hot dogs to add", Required: true},
			},
			IntegrationTypes: []int{0, 1},
			Contexts:         []int{0, 1},
		},
		{
			Name:        "protest",
			Description: "Protest another user's hotdog claim",
			Type:        1,
			Options: []CommandOption{
				{Type: OptionUser, Name: "user", Description: "User to protest", Required: true},
				{Type: OptionInteger, Name: "amount", Description: "Amount to deduct if seconded", Required: true},
			},
			IntegrationTypes: []int{0, 1},
			Contexts:         []int{0, 1, 2},
		},
		{
			Name:             "leaderboard",
			Description:      "View the hot dog leaderboard",
			Type:             1,
			IntegrationTypes: []int{0, 1},
			Contexts:         []int{0, 1, 2},
		},
		{
			Name:             "stats",
			Description:      "View server hot dog stats",
			Type:             1,
			IntegrationTypes: []int{0, 1},
			Contexts:         []int{0, 1, 2},
		},
	}
}
